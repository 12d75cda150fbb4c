package irq

import "platypos/kernel/cpu"

// archController implements Controller on top of the amd64 interrupt flag.
type archController struct{}

func (archController) DisableInterrupts() {
	cpu.DisableInterrupts()
}

func (archController) EnableInterrupts() {
	cpu.EnableInterrupts()
}

func (archController) InterruptsEnabled() bool {
	return cpu.InterruptsEnabled()
}
