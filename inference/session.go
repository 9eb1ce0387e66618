// Package inference wraps ONNX Runtime sessions for token classification
// models such as wtpsplit/SaT.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Default tensor names of SaT models.
var (
	DefaultInputs  = []string{"input_ids", "attention_mask"}
	DefaultOutputs = []string{"logits"}
)

var (
	ortOnce sync.Once
	ortErr  error
)

func initORT() error {
	ortOnce.Do(func() {
		if lib := os.Getenv("ONNXRUNTIME_LIB"); lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// Session runs one model. Calls to Infer are serialized.
type Session struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	closed  bool
}

// NewSession loads modelPath with the SaT input and output names.
func NewSession(modelPath string) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}
	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	s, err := ort.NewDynamicAdvancedSession(modelPath, DefaultInputs, DefaultOutputs, options)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &Session{session: s}, nil
}

// Infer runs a batch of one sequence and returns one logit per token.
func (s *Session) Infer(ctx context.Context, ids, mask []int64) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ids) != len(mask) {
		return nil, fmt.Errorf("ids and mask length differ: %d != %d", len(ids), len(mask))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.session == nil {
		return nil, ErrSessionClosed
	}

	n := int64(len(ids))
	shape := ort.NewShape(1, n)

	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = idsTensor.Destroy() }()

	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("creating attention_mask tensor: %w", err)
	}
	defer func() { _ = maskTensor.Destroy() }()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}
	if outputs[0] == nil {
		return nil, errors.New("no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}

	data := logits.GetData()
	if int64(len(data)) < n {
		return nil, fmt.Errorf("output has %d values for %d tokens", len(data), n)
	}
	out := make([]float32, n)
	copy(out, data[:n])
	return out, nil
}

// Close releases the ONNX session. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
