// Package sync provides synchronization primitives that work without a
// scheduler.
package sync

import "sync/atomic"

var (
	// yieldFn is invoked by spinning tasks after spinAttempts failed checks.
	// There is no scheduler to yield to, so it is nil outside of tests.
	yieldFn func()
)

const spinAttempts = 64

// Spinlock implements a lock where each task trying to acquire it busy-waits
// till the lock becomes available.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the currently active task.
// Any attempt to re-acquire a lock already held by the current task will cause
// a deadlock; code that may run in a fault or interrupt context must use
// TryToAcquire instead.
func (l *Spinlock) Acquire() {
	for {
		if atomic.SwapUint32(&l.state, 1) == 0 {
			return
		}

		// Spin on plain loads so the cache line is not bounced around by
		// repeated swaps while the lock is held.
		for attempts := spinAttempts; atomic.LoadUint32(&l.state) != 0; {
			if attempts--; attempts == 0 {
				if yieldFn != nil {
					yieldFn()
				}
				attempts = spinAttempts
			}
		}
	}
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock allowing other tasks to acquire it. Calling
// Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}
