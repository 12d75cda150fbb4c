// Package irq controls the delivery of external interrupts on the current
// CPU. Code that shares state with interrupt handlers brackets its critical
// sections with Disable/Restore pairs; the package keeps a disable-depth
// counter so that nested sections only touch the hardware interrupt flag on
// the outermost transitions.
package irq

import "sync/atomic"

// Controller provides the architecture hooks used for toggling the delivery
// of maskable interrupts on the current CPU.
type Controller interface {
	DisableInterrupts()
	EnableInterrupts()
	InterruptsEnabled() bool
}

var (
	controller Controller = archController{}

	// disableDepth counts the Disable calls that have not been matched by
	// a Restore yet. The hardware interrupt flag is only toggled on the
	// 0<->1 transitions which makes nested critical sections safe.
	// TODO: this must become a per-CPU counter once SMP support lands.
	disableDepth uint32

	// restoreEnabled remembers whether interrupts were enabled before the
	// outermost Disable so that the matching Restore can return the CPU
	// to its prior state.
	restoreEnabled bool
)

// SetController overrides the architecture hooks used for toggling
// interrupts. The default controller drives the CPU interrupt flag directly;
// other architecture ports and tests install their own implementation before
// issuing any Disable calls. Passing nil reinstates the default controller.
func SetController(c Controller) {
	if c == nil {
		c = archController{}
	}

	controller = c
}

// Guard represents an interrupt-disabled critical section entered via a call
// to Disable. The section ends when Restore is invoked.
type Guard struct{}

// Disable turns off interrupt delivery on the current CPU and returns a
// Guard whose Restore method undoes the effect. Calls nest: only the
// outermost Disable touches the interrupt flag and records the state that
// the final Restore brings back.
func Disable() Guard {
	if atomic.AddUint32(&disableDepth, 1) == 1 {
		restoreEnabled = controller.InterruptsEnabled()
		controller.DisableInterrupts()
	}

	return Guard{}
}

// Restore exits the critical section entered by the matching Disable call.
// When the outermost section ends, interrupt delivery is re-enabled if it
// was enabled before the section was entered.
func (Guard) Restore() {
	if atomic.AddUint32(&disableDepth, ^uint32(0)) == 0 && restoreEnabled {
		controller.EnableInterrupts()
	}
}
