package inference

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// modelPath returns the SaT model used by the ONNX-backed tests, skipping
// when it is not configured.
func modelPath(t *testing.T) string {
	t.Helper()
	p := os.Getenv("SACR_TEST_MODEL")
	if p == "" {
		t.Skip("SACR_TEST_MODEL not set")
	}
	if _, err := os.Stat(p); err != nil {
		t.Skipf("Skipping: model not available at %s", p)
	}
	return p
}

func TestNewSession_FileNotFound(t *testing.T) {
	_, err := NewSession("testdata/nonexistent.onnx")
	if err == nil {
		t.Fatal("expected error for non-existent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got: %v", err)
	}
}

func TestSession_Infer(t *testing.T) {
	session, err := NewSession(modelPath(t))
	if err != nil {
		if isORTUnavailableError(err) {
			t.Skipf("Skipping: ONNX runtime not available: %v", err)
		}
		t.Fatalf("NewSession failed: %v", err)
	}
	defer func() { _ = session.Close() }()

	ids := []int64{0, 35378, 8999, 5, 2}
	mask := []int64{1, 1, 1, 1, 1}

	logits, err := session.Infer(context.Background(), ids, mask)
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if len(logits) != len(ids) {
		t.Errorf("got %d logits, want %d", len(logits), len(ids))
	}
}

func TestSession_Infer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Session{}
	_, err := s.Infer(ctx, []int64{1}, []int64{1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestSession_Infer_LengthMismatch(t *testing.T) {
	s := &Session{}
	_, err := s.Infer(context.Background(), []int64{1, 2}, []int64{1})
	if err == nil {
		t.Fatal("expected error for mismatched mask")
	}
}

func TestSession_Infer_AfterClose(t *testing.T) {
	s := &Session{}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err := s.Infer(context.Background(), []int64{1}, []int64{1})
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got: %v", err)
	}
}

func TestSession_Close_Idempotent(t *testing.T) {
	s := &Session{}
	if err := s.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

// isORTUnavailableError reports whether err means the ONNX Runtime shared
// library could not be loaded.
func isORTUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{"onnxruntime", "shared library", "dylib", ".so", ".dll", "cannot open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
