// btreescan exercises the btree with a randomized workload and checks
// the structural invariants afterwards.  It is a diagnostic tool, not
// part of the library API.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/PlakarKorp/go-btree"
)

func main() {
	var (
		order   int
		items   int
		deletes int
		batch   int
		seed    int64
		dot     string
	)
	flag.IntVar(&order, "order", 50, `Order of the btree`)
	flag.IntVar(&items, "items", 100000, `Number of random items to insert`)
	flag.IntVar(&deletes, "deletes", 1000, `Number of random deletions afterwards`)
	flag.IntVar(&batch, "batch", 10000, `Number of sorted items to bulk-append at the end`)
	flag.Int64Var(&seed, "seed", 0, `Seed for the workload generator`)
	flag.StringVar(&dot, "dot", "", `Where to put the generated dot; empty for none`)
	flag.Parse()

	rng := rand.New(rand.NewSource(seed))

	idx, err := btree.NewWithOrder[string, int](strings.Compare, order)
	if err != nil {
		log.Fatal("failed to create the btree", "error", err)
	}

	log.Info("starting the workload", "order", order, "seed", seed)

	keys := make([]string, 0, items)
	for i := 0; i < items; i++ {
		key := uuid.Must(uuid.NewRandomFromReader(rng)).String()
		if err := idx.Insert(key, i); err != nil {
			log.Fatal("insert failed", "key", key, "error", err)
		}
		keys = append(keys, key)
	}
	log.Info("inserted", "items", humanize.Comma(int64(idx.Len())), "height", idx.Height())

	// a clone must keep seeing the pre-deletion content
	snapshot := idx.Clone()

	for i := 0; i < deletes && idx.Len() > 0; i++ {
		key := keys[rng.Intn(len(keys))]
		idx.Delete(key)
	}
	log.Info("deleted", "remaining", humanize.Comma(int64(idx.Len())))

	if snapshot.Len() != items {
		log.Fatal("clone lost items", "want", items, "got", snapshot.Len())
	}

	if batch > 0 {
		maxkey, _, _ := idx.Max()
		sorted := make([]btree.Item[string, int], 0, batch)
		for i := 0; i < batch; i++ {
			sorted = append(sorted, btree.Item[string, int]{
				Key:   fmt.Sprintf("%s-%08d", maxkey, i),
				Value: i,
			})
		}
		if err := idx.Append(sorted); err != nil {
			log.Fatal("bulk append failed", "error", err)
		}
		log.Info("appended", "items", humanize.Comma(int64(batch)))
	}

	// the ranks must agree with a sorted view of the keys
	it := idx.ScanAll()
	rank := 0
	for it.Next() {
		key, _ := it.Current()
		if got, _ := idx.IndexOf(key); got != rank {
			log.Fatal("rank mismatch", "key", key, "want", rank, "got", got)
		}
		rank++
	}
	if !sort.StringsAreSorted(keysOf(idx)) {
		log.Fatal("iteration is not sorted")
	}

	if dot != "" {
		fp, err := os.Create(dot)
		if err != nil {
			log.Fatal("failed to create the dot file", "path", dot, "error", err)
		}
		defer fp.Close()
		fmt.Fprintln(fp, "digraph g {")
		idx.Dot(fp)
		fmt.Fprintln(fp, "}")
	}

	for _, tree := range []*btree.BTree[string, int]{idx, snapshot} {
		if err := tree.Verify(); err != nil {
			log.Fatal("verify failed", "error", err)
		}
	}
	log.Info("verify passed", "items", humanize.Comma(int64(idx.Len())))
}

func keysOf(b *btree.BTree[string, int]) []string {
	keys := make([]string, 0, b.Len())
	for key := range b.All() {
		keys = append(keys, key)
	}
	return keys
}
