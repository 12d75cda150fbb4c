package sync

import "platypos/kernel/irq"

// IrqMutex is a spinlock that additionally manages the interrupt state of
// the current CPU. While the mutex is held, interrupt delivery is disabled,
// making the lock safe to take for state that is also accessed from
// interrupt handlers: a handler on the same CPU can never preempt a holder,
// and handlers on other CPUs spin on the inner lock.
//
// The zero value is an unlocked mutex.
type IrqMutex struct {
	lock  Spinlock
	guard irq.Guard
}

// Lock disables interrupt delivery on the current CPU and then acquires the
// inner spinlock. Interrupts must be disabled before attempting to take the
// lock: in the reverse order an interrupt could fire right after the lock
// was acquired and its handler would spin forever on a lock that the
// interrupted task can no longer release.
func (m *IrqMutex) Lock() {
	g := irq.Disable()
	m.lock.Acquire()
	m.guard = g
}

// Unlock releases the inner spinlock and then restores the interrupt state
// saved by Lock. The order mirrors Lock: the lock must be free before a
// pending interrupt gets a chance to run, otherwise its handler could
// deadlock trying to acquire it.
func (m *IrqMutex) Unlock() {
	g := m.guard
	m.lock.Release()
	g.Restore()
}
