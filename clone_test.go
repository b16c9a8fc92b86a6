package btree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestClone(t *testing.T) {
	a, _ := NewWithOrder[int, int](intcmp, 4)
	for i := 1; i <= 50; i++ {
		require.NoError(t, a.Insert(i, i))
	}

	b := a.Clone()
	_, found := b.Delete(25)
	require.True(t, found)

	// the original must not observe the clone's mutation
	require.Equal(t, 50, a.Len())
	require.True(t, a.Has(25))
	require.Equal(t, 49, b.Len())
	require.False(t, b.Has(25))

	want := make([]Item[int, int], 0, 50)
	for i := 1; i <= 50; i++ {
		want = append(want, Item[int, int]{i, i})
	}
	require.Equal(t, want, collect(a))

	require.NoError(t, a.Verify())
	require.NoError(t, b.Verify())
}

func TestCloneDiverging(t *testing.T) {
	base, _ := NewWithOrder[int, int](intcmp, 5)
	rng := rand.New(rand.NewSource(99))
	for _, k := range rng.Perm(1000) {
		require.NoError(t, base.Insert(k, k))
	}

	clones := make([]*BTree[int, int], 4)
	for i := range clones {
		clones[i] = base.Clone()
	}

	// each clone diverges its own way; deletes and appends both go
	// through the copy-on-write path.
	for i, clone := range clones {
		for k := i * 250; k < (i+1)*250; k++ {
			_, found := clone.Delete(k)
			require.True(t, found)
		}
		require.NoError(t, clone.Append(items(2000+i)))
	}

	require.Equal(t, 1000, base.Len())
	for i, clone := range clones {
		require.Equal(t, 751, clone.Len(), "clone %d", i)
		require.NoError(t, clone.Verify(), "clone %d", i)
	}
	require.NoError(t, base.Verify())
}

// Distinct clones may be mutated from distinct goroutines.
func TestCloneConcurrentMutation(t *testing.T) {
	base, _ := NewWithOrder[int, int](intcmp, 8)
	for i := 0; i < 5000; i++ {
		require.NoError(t, base.Insert(i, i))
	}

	var g errgroup.Group
	clones := make([]*BTree[int, int], 8)
	for i := range clones {
		clones[i] = base.Clone()
	}
	for i := range clones {
		clone, id := clones[i], i
		g.Go(func() error {
			for k := id; k < 5000; k += 8 {
				if _, found := clone.Delete(k); !found {
					return fmt.Errorf("clone %d: Delete(%d) found nothing", id, k)
				}
			}
			for k := 0; k < 500; k++ {
				clone.Update(10000+id*1000+k, k)
			}
			return clone.Verify()
		})
	}
	require.NoError(t, g.Wait())

	require.Equal(t, 5000, base.Len())
	require.NoError(t, base.Verify())
}

func TestCloneOfClone(t *testing.T) {
	a, _ := NewWithOrder[int, int](intcmp, 4)
	for i := 0; i < 100; i++ {
		require.NoError(t, a.Insert(i, i))
	}

	b := a.Clone()
	b.Update(100, 100)
	c := b.Clone()
	c.Update(101, 101)

	require.Equal(t, 100, a.Len())
	require.Equal(t, 101, b.Len())
	require.Equal(t, 102, c.Len())
	for _, tree := range []*BTree[int, int]{a, b, c} {
		require.NoError(t, tree.Verify())
	}
}
