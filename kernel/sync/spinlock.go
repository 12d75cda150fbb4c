// Package sync provides the synchronization primitives used by the kernel:
// a busy-wait spinlock and an interrupt-safe mutex built on top of it.
package sync

import (
	"sync/atomic"

	"platypos/kernel/cpu"
)

var (
	// pauseFn is invoked while busy-waiting for a lock to become
	// available. Tests substitute it to yield to the Go scheduler.
	pauseFn = cpu.Pause
)

// Spinlock implements a lock where each task trying to acquire it busy-waits
// till the lock becomes available.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the currently active task.
// Any attempt to re-acquire a lock already held by the current task will cause
// a deadlock.
func (l *Spinlock) Acquire() {
	for !l.TryToAcquire() {
		// Wait for the lock to look free before retrying the atomic
		// swap; this keeps the cache line shared while spinning.
		for atomic.LoadUint32(&l.state) != 0 {
			pauseFn()
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
