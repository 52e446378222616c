package core

import (
	"context"
	"sync"
)

// AsyncResult represents an invocation running in its own goroutine.
// It resolves exactly once, with either a result or an error.
type AsyncResult struct {
	Method string

	once   sync.Once
	done   chan struct{}
	result Renderable
	err    error
}

func newAsyncResult(method string) *AsyncResult {
	return &AsyncResult{
		Method: method,
		done:   make(chan struct{}),
	}
}

func (ar *AsyncResult) resolve(result Renderable, err error) {
	ar.once.Do(func() {
		ar.result = result
		ar.err = err
		close(ar.done)
	})
}

// Done returns a channel that is closed once the invocation has resolved.
func (ar *AsyncResult) Done() <-chan struct{} {
	return ar.done
}

// Wait blocks until the invocation resolves.
func (ar *AsyncResult) Wait() (Renderable, error) {
	<-ar.done
	return ar.result, ar.err
}

// WaitContext blocks until the invocation resolves or ctx is done.
// The invocation itself keeps running when ctx is done first.
func (ar *AsyncResult) WaitContext(ctx context.Context) (Renderable, error) {
	select {
	case <-ar.done:
		return ar.result, ar.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsSuccess returns true if the invocation resolved without error.
func (ar *AsyncResult) IsSuccess() bool {
	select {
	case <-ar.done:
		return ar.err == nil
	default:
		return false
	}
}

// IsFailed returns true if the invocation resolved with an error.
func (ar *AsyncResult) IsFailed() bool {
	select {
	case <-ar.done:
		return ar.err != nil
	default:
		return false
	}
}
