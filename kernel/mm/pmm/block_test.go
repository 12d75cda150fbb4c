package pmm

import "testing"

func TestBlockIDArithmetic(t *testing.T) {
	specs := []struct {
		block         blockID
		expSibling    blockID
		expParent     blockID
		expLeftChild  blockID
		expRightChild blockID
	}{
		{
			block:         blockID{order: 1, index: 4},
			expSibling:    blockID{order: 1, index: 5},
			expParent:     blockID{order: 2, index: 2},
			expLeftChild:  blockID{order: 0, index: 8},
			expRightChild: blockID{order: 0, index: 9},
		},
		{
			block:         blockID{order: 3, index: 7},
			expSibling:    blockID{order: 3, index: 6},
			expParent:     blockID{order: 4, index: 3},
			expLeftChild:  blockID{order: 2, index: 14},
			expRightChild: blockID{order: 2, index: 15},
		},
	}

	for specIndex, spec := range specs {
		if got := spec.block.sibling(); got != spec.expSibling {
			t.Errorf("[spec %d] expected sibling to be %v; got %v", specIndex, spec.expSibling, got)
		}

		if got := spec.block.sibling().sibling(); got != spec.block {
			t.Errorf("[spec %d] expected sibling to be an involution; got %v", specIndex, got)
		}

		if got := spec.block.parent(); got != spec.expParent {
			t.Errorf("[spec %d] expected parent to be %v; got %v", specIndex, spec.expParent, got)
		}

		if got := spec.block.leftChild(); got != spec.expLeftChild {
			t.Errorf("[spec %d] expected left child to be %v; got %v", specIndex, spec.expLeftChild, got)
		}

		if got := spec.block.rightChild(); got != spec.expRightChild {
			t.Errorf("[spec %d] expected right child to be %v; got %v", specIndex, spec.expRightChild, got)
		}

		if got := spec.block.leftChild().parent(); got != spec.block {
			t.Errorf("[spec %d] expected left child's parent to round-trip; got %v", specIndex, got)
		}

		if got := spec.block.rightChild().sibling(); got != spec.block.leftChild() {
			t.Errorf("[spec %d] expected the children to be each other's sibling", specIndex)
		}
	}
}

func TestBlockIDHasParent(t *testing.T) {
	if b := (blockID{order: MaxOrder, index: 0}); b.hasParent() {
		t.Error("expected a MaxOrder block to have no parent")
	}

	if b := (blockID{order: MaxOrder - 1, index: 0}); !b.hasParent() {
		t.Error("expected a non-MaxOrder block to have a parent")
	}
}
