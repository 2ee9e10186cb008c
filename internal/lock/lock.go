// Package lock provides the mutual-exclusion capability that guards each
// hart's queue slot.
package lock

import (
	"runtime"
	"sync/atomic"
)

// Locker is the guard capability. Lock blocks until exclusive access is
// granted; TryLock attempts acquisition without blocking and reports
// success. No fairness or ordering is guaranteed beyond mutual exclusion.
// sync.Mutex satisfies this interface as of Go 1.18.
type Locker interface {
	Lock()
	TryLock() bool
	Unlock()
}

// SpinLock is a test-and-set spin lock that yields the processor between
// failed attempts.
type SpinLock struct {
	locked atomic.Bool
}

func (l *SpinLock) Lock() {
	for !l.locked.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (l *SpinLock) TryLock() bool {
	return l.locked.CompareAndSwap(false, true)
}

func (l *SpinLock) Unlock() {
	if !l.locked.CompareAndSwap(true, false) {
		panic("lock: unlock of unlocked SpinLock")
	}
}
