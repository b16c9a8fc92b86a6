package btree

import (
	"iter"

	"github.com/PlakarKorp/go-btree/iterator"
)

// step is one frame of the iteration path: a node and the index of the
// key to produce next within it.
type step[K, V any] struct {
	n   *node[K, V]
	idx int
}

type scanIter[K, V any] struct {
	stack   []step[K, V]
	started bool
}

// ScanAll returns an iterator that visits every pair in ascending key
// order.  The iterator is not restartable; obtain a fresh one to
// iterate again.  Its Err is always nil.
func (b *BTree[K, V]) ScanAll() iterator.Iterator[K, V] {
	it := &scanIter[K, V]{}
	if b.root != nil {
		it.dive(b.root)
	}
	return it
}

// dive descends to the leftmost leaf under n, recording the path.
func (it *scanIter[K, V]) dive(n *node[K, V]) {
	for {
		it.stack = append(it.stack, step[K, V]{n, 0})
		if n.isleaf() {
			return
		}
		n = n.children[0]
	}
}

func (it *scanIter[K, V]) Next() bool {
	if !it.started {
		it.started = true
		return len(it.stack) > 0
	}
	if len(it.stack) == 0 {
		return false
	}

	top := &it.stack[len(it.stack)-1]
	if !top.n.isleaf() {
		// the separator just produced is followed by the subtree
		// to its right; the bumped index will be produced once
		// that subtree is exhausted.
		top.idx++
		it.dive(top.n.children[top.idx])
		return true
	}

	if top.idx < len(top.n.keys)-1 {
		top.idx++
		return true
	}

	// pop finished subtrees until a frame has a key left
	it.stack = it.stack[:len(it.stack)-1]
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.idx < len(top.n.keys) {
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

func (it *scanIter[K, V]) Current() (K, V) {
	top := it.stack[len(it.stack)-1]
	return top.n.keys[top.idx], top.n.values[top.idx]
}

func (it *scanIter[K, V]) Err() error {
	return nil
}

// All returns a range-function view of the tree in ascending key
// order, for use with range.
func (b *BTree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if b.root != nil {
			b.root.walk(yield)
		}
	}
}

func (n *node[K, V]) walk(yield func(K, V) bool) bool {
	if n.isleaf() {
		for i := range n.keys {
			if !yield(n.keys[i], n.values[i]) {
				return false
			}
		}
		return true
	}
	for i := range n.keys {
		if !n.children[i].walk(yield) {
			return false
		}
		if !yield(n.keys[i], n.values[i]) {
			return false
		}
	}
	return n.children[len(n.keys)].walk(yield)
}
