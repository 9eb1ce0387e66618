package inference

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// emptySessions returns a factory of sessions with no ONNX backing, which
// is enough to exercise pool bookkeeping.
func emptySessions(created *int32) Factory {
	return func() (*Session, error) {
		if created != nil {
			atomic.AddInt32(created, 1)
		}
		return &Session{}, nil
	}
}

func TestNewPool_Size(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"positive", 3, 3},
		{"zero", 0, 1},
		{"negative", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created int32
			pool, err := NewPool(tt.size, emptySessions(&created))
			if err != nil {
				t.Fatalf("NewPool failed: %v", err)
			}
			defer func() { _ = pool.Close() }()

			if pool.Size() != tt.want {
				t.Errorf("Size() = %d, want %d", pool.Size(), tt.want)
			}
			if int(created) != tt.want {
				t.Errorf("created %d sessions, want %d", created, tt.want)
			}
		})
	}
}

func TestNewPool_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := NewPool(3, func() (*Session, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return &Session{}, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got: %v", err)
	}
	if calls != 2 {
		t.Errorf("factory called %d times, want 2", calls)
	}
}

func TestPool_AcquireRelease(t *testing.T) {
	pool, err := NewPool(2, emptySessions(nil))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer func() { _ = pool.Close() }()

	ctx := context.Background()

	s1, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 1 failed: %v", err)
	}
	s2, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 2 failed: %v", err)
	}

	ctx3, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := pool.Acquire(ctx3); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}

	pool.Release(s1)
	s3, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 3 failed: %v", err)
	}
	if s3 != s1 {
		t.Error("expected the released session to be reused")
	}

	pool.Release(s2)
	pool.Release(s3)
}

func TestPool_ReleaseNil(t *testing.T) {
	pool, err := NewPool(1, emptySessions(nil))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer func() { _ = pool.Close() }()

	pool.Release(nil)
}

func TestPool_Close_Idempotent(t *testing.T) {
	pool, err := NewPool(2, emptySessions(nil))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	if err := pool.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestPool_AcquireAfterClose(t *testing.T) {
	pool, err := NewPool(1, emptySessions(nil))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	_ = pool.Close()

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}

func TestPool_ReleaseAfterClose(t *testing.T) {
	pool, err := NewPool(1, emptySessions(nil))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	s, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	_ = pool.Close()

	pool.Release(s)

	if _, err := s.Infer(context.Background(), []int64{1}, []int64{1}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected released session to be closed, got %v", err)
	}
}

func TestPool_ConcurrentAccess(t *testing.T) {
	pool, err := NewPool(2, emptySessions(nil))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer func() { _ = pool.Close() }()

	var (
		wg       sync.WaitGroup
		inUse    int32
		maxInUse int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := pool.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			n := atomic.AddInt32(&inUse, 1)
			for {
				m := atomic.LoadInt32(&maxInUse)
				if n <= m || atomic.CompareAndSwapInt32(&maxInUse, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inUse, -1)
			pool.Release(s)
		}()
	}
	wg.Wait()

	if maxInUse > 2 {
		t.Errorf("max concurrent sessions = %d, want <= 2", maxInUse)
	}
}
