package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Factory creates one session for a Pool.
type Factory func() (*Session, error)

// Pool holds a fixed set of sessions shared between goroutines.
type Pool struct {
	mu       sync.Mutex
	sessions chan *Session
	size     int
	closed   bool
}

// NewPool creates size sessions up front. A size below one is treated as one.
// If any session fails to start, the ones already created are closed.
func NewPool(size int, newSession Factory) (*Pool, error) {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		sessions: make(chan *Session, size),
		size:     size,
	}

	for i := 0; i < size; i++ {
		s, err := newSession()
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		p.sessions <- s
	}

	return p, nil
}

// Acquire takes a session, waiting until one is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case s, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns s to the pool. Sessions released after Close are closed.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = s.Close()
		return
	}

	select {
	case p.sessions <- s:
	default:
		_ = s.Close()
	}
}

// Close closes every idle session. Sessions still checked out are closed
// when released. Close is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sessions)
	p.mu.Unlock()

	var errs []error
	for s := range p.sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of sessions the pool was created with.
func (p *Pool) Size() int {
	return p.size
}
