package pmm

import (
	"unsafe"

	"platypos/kernel"
	"platypos/kernel/kfmt"
	"platypos/kernel/mm"
)

var (
	errOutOfMemory        = &kernel.Error{Module: "pmm", Message: "out of memory"}
	errInvalidFrameCount  = &kernel.Error{Module: "pmm", Message: "frame count must be between 1 and MaxOrder.Frames()"}
	errFreeOutsideRegions = &kernel.Error{Module: "pmm", Message: "freed block does not belong to any region"}
)

// FrameAllocator hands out power-of-two runs of physical page frames from
// an ordered list of regions. The region list is assembled by AddRange
// during single-threaded initialization and is immutable once the other
// CPUs come up; after that only the per-region state mutates, each piece
// under its own interrupt-safe mutex.
type FrameAllocator struct {
	// physMapOffset is the virtual address at which physical page 0 is
	// mapped. All region bookkeeping is accessed through this mapping.
	physMapOffset uintptr

	// head and tail track the region list, linked through each region's
	// header.
	head uintptr
	tail uintptr
}

// SetPhysMapOffset records the virtual address at which the kernel maps
// physical memory. It must be called before any region is added.
func (a *FrameAllocator) SetPhysMapOffset(offset uintptr) {
	a.physMapOffset = offset
}

// AddRange hands the frames in [startFrame, endFrame) over to the
// allocator. Spans larger than MaxRegionFrames are split into multiple
// regions; fragments too small to hold a region's bookkeeping plus at
// least one data frame are discarded. AddRange must only be called during
// single-threaded initialization.
func (a *FrameAllocator) AddRange(startFrame, endFrame mm.Frame) {
	for startFrame < endFrame {
		frames := uintptr(endFrame - startFrame)
		if frames > MaxRegionFrames {
			frames = MaxRegionFrames
		}

		if frames <= regionHeaderFrames {
			kfmt.Printf("[pmm] discarding %d-frame fragment at 0x%x\n", frames, startFrame.Address())
			return
		}

		region := newRegion(a.physMapOffset+startFrame.Address(), frames)
		a.appendRegion(region)
		kfmt.Printf("[pmm] added %d-frame region at 0x%x\n", frames, startFrame.Address())

		startFrame += mm.Frame(frames)
	}
}

func (a *FrameAllocator) appendRegion(r *Region) {
	node := uintptr(unsafe.Pointer(r))

	if a.tail != 0 {
		(*Region)(unsafe.Pointer(a.tail)).link = node
	} else {
		a.head = node
	}

	a.tail = node
}

// AllocFrames reserves a naturally aligned run of count physically
// contiguous frames and returns its first frame. Counts are rounded up to
// the next power of two. Regions are tried in the order they were added;
// an allocation is never split across regions.
func (a *FrameAllocator) AllocFrames(count uintptr) (mm.Frame, *kernel.Error) {
	if count == 0 || count > MaxOrder.Frames() {
		return mm.InvalidFrame, errInvalidFrameCount
	}

	order := orderForFrames(count)
	for node := a.head; node != 0; node = (*Region)(unsafe.Pointer(node)).link {
		if addr, ok := (*Region)(unsafe.Pointer(node)).Alloc(order); ok {
			return mm.FrameFromAddress(addr - a.physMapOffset), nil
		}
	}

	return mm.InvalidFrame, errOutOfMemory
}

// AllocFramesZeroed behaves like AllocFrames but clears the returned block
// before handing it out.
func (a *FrameAllocator) AllocFramesZeroed(count uintptr) (mm.Frame, *kernel.Error) {
	frame, err := a.AllocFrames(count)
	if err != nil {
		return mm.InvalidFrame, err
	}

	kernel.Memset(a.physMapOffset+frame.Address(), 0, orderForFrames(count).Bytes())

	return frame, nil
}

// FreeFrames returns the run of count frames starting at frame to the
// region it was allocated from. Both values must match a previous
// AllocFrames call; releasing memory the allocator does not own is fatal.
func (a *FrameAllocator) FreeFrames(frame mm.Frame, count uintptr) {
	if count == 0 || count > MaxOrder.Frames() {
		kfmt.Panic(errInvalidFrameCount)
	}

	addr := a.physMapOffset + frame.Address()
	for node := a.head; node != 0; node = (*Region)(unsafe.Pointer(node)).link {
		if region := (*Region)(unsafe.Pointer(node)); region.Contains(addr) {
			region.Free(addr, orderForFrames(count))
			return
		}
	}

	kfmt.Panic(errFreeOutsideRegions)
}

// TotalFreeFrames reports the number of free data frames across all
// regions. The figure is a snapshot: concurrent allocations may change it
// before the caller acts on it.
func (a *FrameAllocator) TotalFreeFrames() uintptr {
	var total uintptr
	for node := a.head; node != 0; node = (*Region)(unsafe.Pointer(node)).link {
		total += (*Region)(unsafe.Pointer(node)).FreeFrameCount()
	}

	return total
}
