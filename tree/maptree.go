package tree

import (
	"sort"

	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/xxhash32"
)

// MaxMapDepth is the deepest a HAMT branch may nest (7 nibbles, 28
// bits of a 32-bit hash) before entries collapse into a sorted leaf.
const MaxMapDepth = 7

// MapChild is one populated slot of a MapNode branch.
type MapChild struct {
	Nibble uint8
	Node   *MapNode
}

// MapNode is either a leaf (carrying entries directly) or a branch
// (carrying up to 16 populated children, one per hash nibble).
type MapNode struct {
	IsLeaf   bool
	Entries  []value.MapEntry // leaf only, sorted byte-lexicographically on Key
	Bitmap   uint32           // branch only; bit i set iff Children has an entry with Nibble i
	Children []MapChild       // branch only, ascending by Nibble
}

type hashedEntry struct {
	entry value.MapEntry
	hash  uint32
}

// BuildMap constructs the HAMT plan for a map's entries.
func BuildMap(entries []value.MapEntry) *MapNode {
	hashed := make([]hashedEntry, len(entries))
	for i, e := range entries {
		hashed[i] = hashedEntry{entry: e, hash: xxhash32.KeyHash(e.Key)}
	}
	return buildMapNode(hashed, 0)
}

func buildMapNode(entries []hashedEntry, depth int) *MapNode {
	if len(entries) <= 1 || depth >= MaxMapDepth {
		return leafNode(entries)
	}
	groups := make(map[uint8][]hashedEntry)
	for _, e := range entries {
		nibble := xxhash32.Nibble(e.hash, depth)
		groups[nibble] = append(groups[nibble], e)
	}
	nibbles := make([]uint8, 0, len(groups))
	for n := range groups {
		nibbles = append(nibbles, n)
	}
	sort.Slice(nibbles, func(i, j int) bool { return nibbles[i] < nibbles[j] })

	node := &MapNode{}
	for _, n := range nibbles {
		node.Bitmap |= 1 << n
		node.Children = append(node.Children, MapChild{
			Nibble: n,
			Node:   buildMapNode(groups[n], depth+1),
		})
	}
	return node
}

func leafNode(entries []hashedEntry) *MapNode {
	sorted := make([]value.MapEntry, len(entries))
	for i, e := range entries {
		sorted[i] = e.entry
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Key, sorted[j].Key
		if a == b {
			return false
		}
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		for k := 0; k < n; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return &MapNode{IsLeaf: true, Entries: sorted}
}
