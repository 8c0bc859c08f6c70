package reveal

import (
	"context"
	"sync"
)

// Task tracks one asynchronous generation with a deterministic fallback.
// It settles exactly once: either with the generator's value or, on any
// error, with the fallback. Value is always usable after settlement;
// callers that need to distinguish can ask Fallback.
type Task[T any] struct {
	name     string
	fallback T

	mu       sync.Mutex
	value    T
	settled  bool
	fellBack bool
	done     chan struct{}
}

func NewTask[T any](name string, fallback T) *Task[T] {
	return &Task[T]{name: name, fallback: fallback, done: make(chan struct{})}
}

func (t *Task[T]) Name() string { return t.name }

// Start runs fn in its own goroutine and settles the task with its
// result. Starting an already-settled task is a no-op.
func (t *Task[T]) Start(ctx context.Context, fn func(context.Context) (T, error)) {
	go func() {
		v, err := fn(ctx)
		if err != nil {
			t.settle(t.fallback, true)
			return
		}
		t.settle(v, false)
	}()
}

// Settle resolves the task directly, for paths that never launch a
// generator call.
func (t *Task[T]) Settle(v T) { t.settle(v, false) }

func (t *Task[T]) settle(v T, fellBack bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.settled {
		return
	}
	t.value = v
	t.fellBack = fellBack
	t.settled = true
	close(t.done)
}

// Done is closed when the task settles.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

func (t *Task[T]) Settled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settled
}

// Value returns the settled value, or the fallback while still pending.
func (t *Task[T]) Value() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.settled {
		return t.fallback
	}
	return t.value
}

// Fallback reports whether the task settled by falling back.
func (t *Task[T]) Fallback() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fellBack
}

// settler is the type-erased view a Set holds of its tasks.
type settler interface {
	Name() string
	Done() <-chan struct{}
	Settled() bool
}

// Set joins N named tasks and answers readiness questions about subsets
// of them. It replaces ad-hoc boolean flags flipped from completion
// callbacks.
type Set struct {
	mu    sync.Mutex
	tasks map[string]settler
}

func NewSet() *Set { return &Set{tasks: make(map[string]settler)} }

// Add registers a task under its name. The last task registered under a
// name wins.
func Add[T any](s *Set, t *Task[T]) {
	s.mu.Lock()
	s.tasks[t.Name()] = t
	s.mu.Unlock()
}

func (s *Set) get(name string) settler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[name]
}

// Ready reports whether every named task exists and has settled.
func (s *Set) Ready(names ...string) bool {
	for _, n := range names {
		t := s.get(n)
		if t == nil || !t.Settled() {
			return false
		}
	}
	return true
}

// Wait blocks until the named tasks have all settled or ctx is done.
func (s *Set) Wait(ctx context.Context, names ...string) error {
	for _, n := range names {
		t := s.get(n)
		if t == nil {
			continue
		}
		select {
		case <-t.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
