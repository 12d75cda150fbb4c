// Package bootinfo exposes the physical memory map that the boot loader
// hands over before the kernel takes control of the machine. The map is
// installed once during early initialization and is consumed by the
// physical frame allocator to locate the RAM it may manage.
package bootinfo

import "platypos/kernel/mm"

// MaxMemoryRegions is the maximum number of memory map entries that can be
// recorded. The limit keeps the boot info structure a fixed size so that it
// can be populated before any allocator exists.
const MaxMemoryRegions = 64

// MemoryKind describes the contents and usability of a memory region
// reported by the boot loader.
type MemoryKind uint32

const (
	// KindUsable indicates conventional RAM that is immediately usable.
	KindUsable MemoryKind = iota

	// KindKernel indicates memory occupied by the kernel image.
	KindKernel

	// KindBootReclaimable indicates boot loader or UEFI boot services
	// data that can be reclaimed once the handoff completes.
	KindBootReclaimable

	// KindAcpiReclaimable indicates ACPI tables that can be reclaimed
	// after they have been parsed.
	KindAcpiReclaimable

	// KindAcpiNonVolatile indicates ACPI non-volatile storage reserved
	// by the firmware.
	KindAcpiNonVolatile

	// KindUefiRuntime indicates memory used by UEFI runtime services.
	KindUefiRuntime

	// KindReserved indicates memory that is not available to the OS.
	KindReserved

	// KindNonVolatile indicates persistent memory.
	KindNonVolatile

	// KindMmIo indicates a region used for memory-mapped I/O.
	KindMmIo

	// KindUnusable indicates memory that reported errors.
	KindUnusable
)

// String implements fmt.Stringer for MemoryKind.
func (k MemoryKind) String() string {
	switch k {
	case KindUsable:
		return "usable"
	case KindKernel:
		return "kernel"
	case KindBootReclaimable:
		return "boot (reclaimable)"
	case KindAcpiReclaimable:
		return "ACPI (reclaimable)"
	case KindAcpiNonVolatile:
		return "ACPI NVS"
	case KindUefiRuntime:
		return "UEFI runtime"
	case KindReserved:
		return "reserved"
	case KindNonVolatile:
		return "non-volatile"
	case KindMmIo:
		return "MMIO"
	case KindUnusable:
		return "unusable"
	default:
		return "unknown"
	}
}

// Reclaimable returns true for regions that become usable RAM once their
// boot-time contents are no longer needed.
func (k MemoryKind) Reclaimable() bool {
	return k == KindBootReclaimable || k == KindAcpiReclaimable
}

// MemoryRegion describes a memory map entry, namely its first frame, its
// one-past-the-end frame and the kind of memory it contains.
type MemoryRegion struct {
	// StartFrame is the first physical frame of the region.
	StartFrame mm.Frame

	// EndFrame is the first physical frame past the region (exclusive).
	EndFrame mm.Frame

	// Kind describes the contents of this region.
	Kind MemoryKind
}

// FrameCount returns the size of this region in page frames.
func (r *MemoryRegion) FrameCount() uintptr {
	return uintptr(r.EndFrame - r.StartFrame)
}

var (
	memoryMap    [MaxMemoryRegions]MemoryRegion
	memoryMapLen int
)

// SetMemoryMap copies the supplied memory map entries into the boot info
// structure, ordered by start frame. It must be invoked by the boot handoff
// code before any call to VisitMemRegions. Entries beyond MaxMemoryRegions
// are dropped.
func SetMemoryMap(entries []MemoryRegion) {
	memoryMapLen = copy(memoryMap[:], entries)

	// Insertion sort; the map is tiny and this avoids pulling in the
	// sort package's closure-based machinery.
	for i := 1; i < memoryMapLen; i++ {
		for j := i; j > 0 && memoryMap[j].StartFrame < memoryMap[j-1].StartFrame; j-- {
			memoryMap[j], memoryMap[j-1] = memoryMap[j-1], memoryMap[j]
		}
	}
}

// MemRegionVisitor defines a visitor function that gets invoked by
// VisitMemRegions for each entry in the memory map. The visitor must return
// true to continue or false to abort the scan.
type MemRegionVisitor func(entry *MemoryRegion) bool

// VisitMemRegions invokes the supplied visitor for each memory region in
// the installed memory map, in ascending frame order.
func VisitMemRegions(visitor MemRegionVisitor) {
	for i := 0; i < memoryMapLen; i++ {
		if !visitor(&memoryMap[i]) {
			return
		}
	}
}
