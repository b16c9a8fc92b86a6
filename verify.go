package btree

import (
	"fmt"
	"io"
)

// Verify checks the structural invariants of the whole tree: occupancy
// bounds, strictly ascending keys, parent/child key separation,
// uniform leaf depth and exact subtree counts.  It returns nil on a
// healthy tree.  Only a bug in this package can make it fail.
func (b *BTree[K, V]) Verify() error {
	if b.root == nil {
		return nil
	}

	if !b.root.isleaf() && len(b.root.keys) == 0 {
		return fmt.Errorf("broken invariant: intermediate root with no keys")
	}

	leafDepth := b.Height()
	return b.verifyNode(b.root, nil, -1, 0, leafDepth)
}

// ptrIdx is the child index of cur within parent, or -1 for the root.
func (b *BTree[K, V]) verifyNode(cur, parent *node[K, V], ptrIdx, depth, leafDepth int) error {
	if len(cur.values) != len(cur.keys) {
		return fmt.Errorf("broken invariant: %d values for %d keys", len(cur.values), len(cur.keys))
	}

	if cur.isleaf() {
		if depth != leafDepth {
			return fmt.Errorf("broken invariant: leaf at depth %d, leftmost leaf at %d", depth, leafDepth)
		}
	} else if len(cur.children) != len(cur.keys)+1 {
		return fmt.Errorf("broken invariant: %d children for %d keys", len(cur.children), len(cur.keys))
	}

	if parent != nil {
		if len(cur.keys) < b.minKeys() || len(cur.keys) > b.maxKeys() {
			return fmt.Errorf("broken invariant: keys occupancy, should be between %d and %d but got %d",
				b.minKeys(), b.maxKeys(), len(cur.keys))
		}
	} else if len(cur.keys) > b.maxKeys() {
		return fmt.Errorf("broken invariant: root holds %d keys, max is %d", len(cur.keys), b.maxKeys())
	}

	for i := 1; i < len(cur.keys); i++ {
		if b.compare(cur.keys[i-1], cur.keys[i]) >= 0 {
			return fmt.Errorf("broken ordering of keys %v", cur.keys)
		}
	}

	// check the separation against the parent: every key here must
	// fall strictly between the separators around ptrIdx.
	if parent != nil && len(cur.keys) > 0 {
		first, last := cur.keys[0], cur.keys[len(cur.keys)-1]
		if ptrIdx > 0 && b.compare(first, parent.keys[ptrIdx-1]) <= 0 {
			return fmt.Errorf("broken invariant: parent/child ordering, %v not above separator %v",
				first, parent.keys[ptrIdx-1])
		}
		if ptrIdx < len(parent.keys) && b.compare(last, parent.keys[ptrIdx]) >= 0 {
			return fmt.Errorf("broken invariant: parent/child ordering, %v not below separator %v",
				last, parent.keys[ptrIdx])
		}
	}

	count := len(cur.keys)
	for i, child := range cur.children {
		if err := b.verifyNode(child, cur, i, depth+1, leafDepth); err != nil {
			return err
		}
		count += child.count
	}
	if count != cur.count {
		return fmt.Errorf("broken invariant: count is %d, subtree holds %d", cur.count, count)
	}

	return nil
}

// Dot writes the tree in graphviz format, one line per node and edge.
// The caller provides the surrounding digraph block.
func (b *BTree[K, V]) Dot(w io.Writer) error {
	if b.root == nil {
		return nil
	}
	return b.root.dot(w)
}

func (n *node[K, V]) dot(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "n%p [label=%q]\n", n, fmt.Sprintf("%v (%d)", n.keys, n.count)); err != nil {
		return err
	}
	for _, child := range n.children {
		if _, err := fmt.Fprintf(w, "n%p -> n%p\n", n, child); err != nil {
			return err
		}
		if err := child.dot(w); err != nil {
			return err
		}
	}
	return nil
}
