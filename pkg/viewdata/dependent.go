package viewdata

import (
	"context"
	"sync"
)

// DependentLoader serializes fetches that depend on a selection made
// elsewhere, such as the section choices for a chosen block. Each Load
// supersedes every Load before it; a superseded fetch reports stale
// instead of delivering a value for a selection nobody is looking at.
type DependentLoader[K comparable, T any] struct {
	fetch func(ctx context.Context, key K) (T, error)

	mu  sync.Mutex
	gen uint64
}

// NewDependentLoader wraps fetch in a stale-discarding loader
func NewDependentLoader[K comparable, T any](fetch func(ctx context.Context, key K) (T, error)) *DependentLoader[K, T] {
	return &DependentLoader[K, T]{fetch: fetch}
}

// Load fetches the value for key. ok is false when the result must not
// be published: either a newer Load started while this one was in
// flight, or the context was cancelled. A stale result carries no
// error; the caller simply drops it.
func (l *DependentLoader[K, T]) Load(ctx context.Context, key K) (value T, ok bool, err error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	value, err = l.fetch(ctx, key)

	l.mu.Lock()
	stale := gen != l.gen
	l.mu.Unlock()

	if stale || ctx.Err() != nil {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return value, true, nil
}
