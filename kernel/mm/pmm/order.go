package pmm

import (
	"math/bits"

	"platypos/kernel/mm"
)

// Order is the base-2 logarithm of a block's frame count: a block of order k
// spans 2^k physically contiguous, naturally aligned frames.
type Order uint8

// MaxOrder is the largest supported allocation order. Order-11 blocks span
// 2048 frames (8 MiB), which is the largest single allocation the frame
// allocator hands out; callers that need more must compose allocations.
const MaxOrder = Order(11)

// Frames returns the number of frames spanned by a block of this order.
func (o Order) Frames() uintptr {
	return uintptr(1) << o
}

// Bytes returns the number of bytes spanned by a block of this order.
func (o Order) Bytes() uintptr {
	return o.Frames() << mm.PageShift
}

// Parent returns the order of the enclosing block twice this size. It must
// not be called on MaxOrder.
func (o Order) Parent() Order {
	return o + 1
}

// Child returns the order of a block half this size. It must not be called
// on order 0.
func (o Order) Child() Order {
	return o - 1
}

// orderForFrames returns the smallest order whose blocks can hold count
// frames. Counts that are not a power of two are rounded up to the next one.
func orderForFrames(count uintptr) Order {
	if count <= 1 {
		return 0
	}

	return Order(bits.Len64(uint64(count - 1)))
}

// log2 computes the integer part of the base-2 logarithm of x.
func log2(x uintptr) uintptr {
	return uintptr(bits.Len64(uint64(x)) - 1)
}
