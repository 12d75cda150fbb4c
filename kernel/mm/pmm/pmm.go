// Package pmm implements the kernel's physical page-frame allocator: a
// buddy allocator over the usable RAM reported by the boot loader.
//
// Physical memory is split into contiguous ranges called regions. Each
// region keeps a bitmap tree with one bitmap per order plus a free list per
// order whose nodes live inside the free memory itself, so the allocator
// consumes no memory beyond the ranges it manages. Every other memory
// subsystem - the kernel heap, page-table backing storage, DMA buffers -
// draws its frames from this package.
package pmm

import (
	"sync/atomic"

	"platypos/kernel"
	"platypos/kernel/hal/bootinfo"
	"platypos/kernel/kfmt"
	"platypos/kernel/mm"
)

var (
	// allocator is the singleton frame allocator used by the kernel. It
	// is constructed by Init before SMP startup.
	allocator FrameAllocator

	initialized uint32
	reclaimed   uint32

	errAlreadyInitialized = &kernel.Error{Module: "pmm", Message: "allocator already initialized"}
	errAlreadyReclaimed   = &kernel.Error{Module: "pmm", Message: "boot memory already reclaimed"}
	errNoUsableMemory     = &kernel.Error{Module: "pmm", Message: "boot memory map contains no usable RAM"}
)

// Init sets up the kernel physical memory allocation sub-system from the
// boot loader's memory map, handing every usable region to the allocator.
// physMapOffset is the virtual address at which the kernel maps physical
// memory. Init must be called exactly once, before SMP startup; calling it
// again is fatal.
func Init(physMapOffset uintptr) *kernel.Error {
	if !atomic.CompareAndSwapUint32(&initialized, 0, 1) {
		kfmt.Panic(errAlreadyInitialized)
	}

	printMemoryMap()

	allocator.SetPhysMapOffset(physMapOffset)
	bootinfo.VisitMemRegions(func(region *bootinfo.MemoryRegion) bool {
		if region.Kind == bootinfo.KindUsable {
			allocator.AddRange(region.StartFrame, region.EndFrame)
		}
		return true
	})

	if allocator.head == 0 {
		return errNoUsableMemory
	}

	mm.SetFrameAllocator(allocFrames)
	mm.SetFrameReleaser(freeFrames)

	return nil
}

// ReclaimBootMemory hands the boot-reclaimable and ACPI-reclaimable
// regions of the memory map to the allocator. It must be called at most
// once, after the kernel has finished consuming the boot loader and ACPI
// data, and still before SMP startup (the region list must not grow once
// the other CPUs are up).
func ReclaimBootMemory() {
	if !atomic.CompareAndSwapUint32(&reclaimed, 0, 1) {
		kfmt.Panic(errAlreadyReclaimed)
	}

	bootinfo.VisitMemRegions(func(region *bootinfo.MemoryRegion) bool {
		if region.Kind.Reclaimable() {
			allocator.AddRange(region.StartFrame, region.EndFrame)
		}
		return true
	})
}

// AllocFrames reserves a naturally aligned run of count physically
// contiguous frames (rounded up to a power of two) and returns its first
// frame.
func AllocFrames(count uintptr) (mm.Frame, *kernel.Error) {
	return allocator.AllocFrames(count)
}

// AllocFramesZeroed behaves like AllocFrames but clears the block before
// handing it out.
func AllocFramesZeroed(count uintptr) (mm.Frame, *kernel.Error) {
	return allocator.AllocFramesZeroed(count)
}

// FreeFrames returns a frame run previously obtained from AllocFrames.
func FreeFrames(frame mm.Frame, count uintptr) {
	allocator.FreeFrames(frame, count)
}

// TotalFreeFrames reports the number of free data frames across all
// regions.
func TotalFreeFrames() uintptr {
	return allocator.TotalFreeFrames()
}

func allocFrames(count uintptr) (mm.Frame, *kernel.Error) {
	return allocator.AllocFrames(count)
}

func freeFrames(frame mm.Frame, count uintptr) {
	allocator.FreeFrames(frame, count)
}

// printMemoryMap logs the memory map reported by the boot loader together
// with the amount of RAM that the allocator will manage.
func printMemoryMap() {
	kfmt.Printf("[pmm] system memory map:\n")

	var totalUsable uintptr
	bootinfo.VisitMemRegions(func(region *bootinfo.MemoryRegion) bool {
		kfmt.Printf("\t[0x%10x - 0x%10x], size: %10d, type: %s\n",
			region.StartFrame.Address(), region.EndFrame.Address(),
			region.FrameCount()*mm.PageSize, region.Kind.String())

		if region.Kind == bootinfo.KindUsable {
			totalUsable += region.FrameCount() * mm.PageSize
		}
		return true
	})

	kfmt.Printf("[pmm] available memory: %dKb\n", totalUsable/1024)
}
