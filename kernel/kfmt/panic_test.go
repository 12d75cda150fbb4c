package kfmt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"platypos/kernel"
)

func TestPanic(t *testing.T) {
	defer func(origHaltFn func()) { cpuHaltFn = origHaltFn }(cpuHaltFn)

	var haltCalled bool
	cpuHaltFn = func() { haltCalled = true }

	var buf bytes.Buffer
	SetOutputSink(&buf)
	defer SetOutputSink(nil)

	specs := []struct {
		input  interface{}
		expMsg string
	}{
		{&kernel.Error{Module: "pmm", Message: "bitmap corrupted"}, "[pmm] unrecoverable error: bitmap corrupted"},
		{"free list mismatch", "[rt] unrecoverable error: free list mismatch"},
		{errors.New("wrapped"), "[rt] unrecoverable error: wrapped"},
	}

	for specIndex, spec := range specs {
		buf.Reset()
		haltCalled = false

		Panic(spec.input)

		if !haltCalled {
			t.Errorf("[spec %d] expected Panic to halt the CPU", specIndex)
		}

		if got := buf.String(); !strings.Contains(got, spec.expMsg) {
			t.Errorf("[spec %d] expected output to contain %q; got %q", specIndex, spec.expMsg, got)
		}

		if got := buf.String(); !strings.Contains(got, "kernel panic: system halted") {
			t.Errorf("[spec %d] expected output to contain the panic banner; got %q", specIndex, got)
		}
	}
}
