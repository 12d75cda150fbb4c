package cpu

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// InterruptsEnabled returns true if the interrupt flag in RFLAGS is set and
// the CPU will deliver maskable external interrupts.
func InterruptsEnabled() bool

// Halt stops instruction execution.
func Halt()

// Pause emits a spin-loop hint to the CPU. It is meant to be called in
// busy-wait loops to reduce the power consumed while spinning and to free up
// execution resources for the sibling hyper-thread.
func Pause()
