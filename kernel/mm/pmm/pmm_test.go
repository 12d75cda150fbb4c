package pmm

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
	"unsafe"

	"platypos/kernel/hal/bootinfo"
	"platypos/kernel/kfmt"
	"platypos/kernel/mm"
)

func TestInitAndReclaim(t *testing.T) {
	defer func() {
		bootinfo.SetMemoryMap(nil)
		mm.SetFrameAllocator(nil)
		mm.SetFrameReleaser(nil)
		kfmt.SetOutputSink(nil)
	}()

	buf := make([]byte, 41*mm.PageSize)
	defer runtime.KeepAlive(buf)
	physMapOffset := (uintptr(unsafe.Pointer(&buf[0])) + mm.PageSize - 1) &^ (mm.PageSize - 1)

	bootinfo.SetMemoryMap([]bootinfo.MemoryRegion{
		{StartFrame: 0, EndFrame: 2, Kind: bootinfo.KindKernel},
		{StartFrame: 2, EndFrame: 12, Kind: bootinfo.KindUsable},
		{StartFrame: 12, EndFrame: 14, Kind: bootinfo.KindReserved},
		{StartFrame: 14, EndFrame: 24, Kind: bootinfo.KindBootReclaimable},
	})

	var log bytes.Buffer
	kfmt.SetOutputSink(&log)

	if err := Init(physMapOffset); err != nil {
		t.Fatal(err)
	}

	for _, exp := range []string{"[pmm] system memory map:", "type: usable", "[pmm] added 10-frame region"} {
		if !strings.Contains(log.String(), exp) {
			t.Errorf("expected boot log to contain %q; got:\n%s", exp, log.String())
		}
	}

	// Only the usable region is handed over at init: 10 frames minus the
	// 2-frame header.
	if exp, got := uintptr(8), TotalFreeFrames(); got != exp {
		t.Fatalf("expected %d free frames after Init; got %d", exp, got)
	}

	// The mm hooks must be wired up to the buddy allocator.
	frame, err := mm.AllocFrame()
	if err != nil {
		t.Fatal(err)
	}

	if frame < 4 || frame >= 12 {
		t.Fatalf("expected a frame from the usable region's data area; got %d", frame)
	}

	mm.FreeFrames(frame, 1)

	if exp, got := uintptr(8), TotalFreeFrames(); got != exp {
		t.Fatalf("expected %d free frames after returning the frame; got %d", exp, got)
	}

	// Reclaiming boot memory adds the reclaimable regions.
	ReclaimBootMemory()

	if exp, got := uintptr(16), TotalFreeFrames(); got != exp {
		t.Fatalf("expected %d free frames after reclaim; got %d", exp, got)
	}

	frame, err = AllocFramesZeroed(2)
	if err != nil {
		t.Fatal(err)
	}
	FreeFrames(frame, 2)
}
