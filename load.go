package btree

import "slices"

// Append adds a batch of strictly ascending items whose first key is
// larger than the current maximum, in amortised constant time per
// item.  The batch is validated up front, so a failed Append leaves
// the tree untouched.
//
// Instead of descending from the root for every item, the rightmost
// spine of the tree is materialised as an explicit bottom-up path,
// each level holding its keys but with its rightmost child handed over
// to the level below.  Every node on the path is made private first,
// so the in-place appends cannot leak into trees sharing storage.
func (b *BTree[K, V]) Append(items []Item[K, V]) error {
	if len(items) == 0 {
		return nil
	}
	for i := 1; i < len(items); i++ {
		if b.compare(items[i-1].Key, items[i].Key) >= 0 {
			return ErrOutOfOrder
		}
	}
	if maxkey, _, ok := b.Max(); ok {
		if b.compare(items[0].Key, maxkey) <= 0 {
			return ErrOutOfOrder
		}
	}

	if b.root == nil {
		b.root = &node[K, V]{cow: b.cow}
	}

	path := b.spine()
	for i := range items {
		path = b.appendOne(path, items[i].Key, items[i].Value)
	}

	// reassemble: hand every level's detached child back to its
	// parent, bottom-up.
	for i := 1; i < len(path); i++ {
		path[i].children = append(path[i].children, path[i-1])
		path[i].count += path[i-1].count
	}
	b.root = path[len(path)-1]
	return nil
}

// spine decomposes the tree into its rightmost path, leaf first.  Each
// intermediate level surrenders its rightmost child to the level
// below, so every returned node is uniquely owned and its count covers
// only what it still holds.
func (b *BTree[K, V]) spine() []*node[K, V] {
	var down []*node[K, V]
	cn := &b.root
	for {
		n := b.mutable(cn)
		down = append(down, n)
		if n.isleaf() {
			break
		}
		cn = &n.children[len(n.children)-1]
	}

	path := make([]*node[K, V], len(down))
	for i := range down {
		path[i] = down[len(down)-1-i]
	}
	// top-down, so that each level subtracts the full count of the
	// child it surrenders before that child gives up its own.
	for i := len(path) - 1; i >= 1; i-- {
		n := path[i]
		n.children = n.children[:len(n.children)-1]
		n.count -= path[i-1].count
	}
	return path
}

// appendOne pushes one pair into the spine leaf and resolves any
// overflow upwards.
func (b *BTree[K, V]) appendOne(path []*node[K, V], key K, val V) []*node[K, V] {
	leaf := path[0]
	leaf.keys = append(leaf.keys, key)
	leaf.values = append(leaf.values, val)
	leaf.count++

	for i := 0; len(path[i].keys) > b.maxKeys(); i++ {
		n := path[i]

		if i > 0 {
			// reattach the level below so the ordinary split
			// primitive applies to a complete node.
			n.children = append(n.children, path[i-1])
			n.count += path[i-1].count
		}
		sp := b.split(n)
		if i > 0 {
			// the right half keeps the spine role; its
			// rightmost child pops back down a level.
			right := sp.right
			below := right.children[len(right.children)-1]
			right.children = right.children[:len(right.children)-1]
			right.count -= below.count
			path[i-1] = below
			path[i] = right
		} else {
			path[i] = sp.right
		}

		// the left half is finished; push it with its separator
		// into the level above, growing a new root level if the
		// split happened at the top.
		if i+1 == len(path) {
			path = append(path, &node[K, V]{
				cow:      b.cow,
				children: []*node[K, V]{},
			})
		}
		parent := path[i+1]
		parent.keys = append(parent.keys, sp.key)
		parent.values = append(parent.values, sp.val)
		parent.children = append(parent.children, n)
		parent.count += n.count + 1
	}
	return path
}

// FromSorted builds a tree with the default order from pairs already
// sorted in strictly ascending key order.
func FromSorted[K, V any](compare func(K, K) int, items []Item[K, V]) (*BTree[K, V], error) {
	b := New[K, V](compare)
	if err := b.Append(items); err != nil {
		return nil, err
	}
	return b, nil
}

// FromItems builds a tree with the default order from arbitrary pairs.
// The input is stably sorted by key first; duplicate keys fail with
// ErrExists.
func FromItems[K, V any](compare func(K, K) int, items []Item[K, V]) (*BTree[K, V], error) {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, c Item[K, V]) int {
		return compare(a.Key, c.Key)
	})
	for i := 1; i < len(sorted); i++ {
		if compare(sorted[i-1].Key, sorted[i].Key) == 0 {
			return nil, ErrExists
		}
	}
	return FromSorted(compare, sorted)
}
