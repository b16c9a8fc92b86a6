package btree

import "slices"

// Clone returns a tree that shares its nodes with b but behaves as an
// independent copy: mutating either tree is never observable through
// the other.  The call is O(1); the actual copying happens lazily,
// one node at a time, along the paths either tree later modifies.
func (b *BTree[K, V]) Clone() *BTree[K, V] {
	// orphan the current nodes so that both trees copy before writing
	b.cow = &cowTag{}
	dup := *b
	dup.cow = &cowTag{}
	return &dup
}

func (b *BTree[K, V]) cloneNode(n *node[K, V]) *node[K, V] {
	dup := &node[K, V]{
		cow:    b.cow,
		count:  n.count,
		keys:   slices.Clone(n.keys),
		values: slices.Clone(n.values),
	}
	if n.children != nil {
		dup.children = slices.Clone(n.children)
	}
	return dup
}

// mutable makes the node at *cn safe to mutate in place, cloning it
// first if it is still shared with another tree, and returns it.
func (b *BTree[K, V]) mutable(cn **node[K, V]) *node[K, V] {
	if (*cn).cow != b.cow {
		*cn = b.cloneNode(*cn)
	}
	return *cn
}
