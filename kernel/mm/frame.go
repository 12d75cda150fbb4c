// Package mm declares the types and constants shared by the kernel's memory
// managers together with the hooks that connect the physical frame allocator
// to its consumers.
package mm

import (
	"math"

	"platypos/kernel"
)

// Frame describes a physical memory page index.
type Frame uintptr

const (
	// InvalidFrame is returned by page allocators when
	// they fail to reserve the requested frame.
	InvalidFrame = Frame(math.MaxUint64)
)

// Valid returns true if this is a valid frame.
func (f Frame) Valid() bool {
	return f != InvalidFrame
}

// Address returns a pointer to the physical memory address pointed to by this Frame.
func (f Frame) Address() uintptr {
	return uintptr(f << PageShift)
}

// FrameFromAddress returns a Frame that corresponds to
// the given physical address. This function can handle
// both page-aligned and not aligned addresses. in the
// latter case, the input address will be rounded down
// to the frame that contains it.
func FrameFromAddress(physAddr uintptr) Frame {
	return Frame((physAddr & ^(PageSize - 1)) >> PageShift)
}

var (
	// frameAllocator points to the block allocator function registered
	// using SetFrameAllocator. It is invoked by the vmm code and the
	// kernel heap when new physical frames need to be allocated.
	frameAllocator FrameAllocatorFn

	// frameReleaser points to the block releaser function registered
	// using SetFrameReleaser.
	frameReleaser FrameReleaserFn
)

// FrameAllocatorFn is a function that can allocate a run of count
// physically contiguous frames. The returned frame is the first frame of
// the run.
type FrameAllocatorFn func(count uintptr) (Frame, *kernel.Error)

// FrameReleaserFn is a function that releases a frame run previously
// obtained via a FrameAllocatorFn.
type FrameReleaserFn func(frame Frame, count uintptr)

// SetFrameAllocator registers a frame allocator function that will be used by
// the vmm code when new physical frames need to be allocated.
func SetFrameAllocator(allocFn FrameAllocatorFn) { frameAllocator = allocFn }

// SetFrameReleaser registers a frame releaser function invoked when
// previously allocated frames are returned.
func SetFrameReleaser(releaseFn FrameReleaserFn) { frameReleaser = releaseFn }

// AllocFrame allocates a single physical frame using the currently active
// frame allocator.
func AllocFrame() (Frame, *kernel.Error) { return frameAllocator(1) }

// AllocFrames allocates a run of count physically contiguous frames using
// the currently active frame allocator.
func AllocFrames(count uintptr) (Frame, *kernel.Error) { return frameAllocator(count) }

// FreeFrames returns a frame run to the currently active frame releaser.
func FreeFrames(frame Frame, count uintptr) { frameReleaser(frame, count) }
