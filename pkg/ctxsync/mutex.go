// Package ctxsync provides a mutual exclusion lock whose acquisition can
// be abandoned through a context. Cursors use it so a caller blocked on a
// busy cursor can give up when its context is cancelled.
package ctxsync

import "context"

// NewMutex creates a new unlocked Mutex.
func NewMutex() *Mutex {
	return &Mutex{sem: make(chan struct{}, 1)}
}

// A Mutex is a mutual exclusion lock. The zero value is not usable; call
// [NewMutex].
type Mutex struct {
	sem chan struct{}
}

// Lock locks m, blocking until it is available.
func (m *Mutex) Lock() {
	m.sem <- struct{}{}
}

// LockWithContext locks m, or returns the context error if ctx is done
// before the lock becomes available. A context that is already done
// always fails, even when the lock is free.
func (m *Mutex) LockWithContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case m.sem <- struct{}{}:
		return nil
	}
}

// TryLock tries to lock m and reports whether it succeeded.
func (m *Mutex) TryLock() bool {
	select {
	case m.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock unlocks m. Unlocking an unlocked mutex panics.
func (m *Mutex) Unlock() {
	select {
	case <-m.sem:
	default:
		panic("ctxsync: unlock of unlocked mutex")
	}
}
