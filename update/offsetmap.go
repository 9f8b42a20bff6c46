package update

import (
	"sort"

	"github.com/signadot/tron-format/tron/codec"
	"github.com/signadot/tron-format/tron/tree"
	"github.com/signadot/tron-format/tron/value"
)

// rawMapEntry is one map entry whose key and value are already
// encoded somewhere in the buffer; rebuilding the tree shape around a
// set of rawMapEntry values never re-encodes their key/value bytes.
type rawMapEntry struct {
	key         string
	hash        uint32
	keyOffset   uint32
	valueOffset uint32
}

// offsetMapPlan mirrors tree.MapNode but over rawMapEntry values
// carrying pre-existing offsets, used when a key insertion forces a
// leaf to be rebuilt into a branch.
type offsetMapPlan struct {
	isLeaf   bool
	entries  []rawMapEntry
	bitmap   uint32
	children []offsetMapChild
}

type offsetMapChild struct {
	nibble uint8
	node   *offsetMapPlan
}

// buildOffsetMapNode rebuilds a HAMT subtree's shape for entries
// starting at depth, exactly mirroring tree.buildMapNode's rule set
// but without re-encoding any key or value.
func buildOffsetMapNode(entries []rawMapEntry, depth int) *offsetMapPlan {
	if len(entries) <= 1 || depth >= tree.MaxMapDepth {
		sorted := append([]rawMapEntry(nil), entries...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })
		return &offsetMapPlan{isLeaf: true, entries: sorted}
	}
	groups := make(map[uint8][]rawMapEntry)
	for _, e := range entries {
		nibble := uint8((e.hash >> uint(depth*4)) & 0xF)
		groups[nibble] = append(groups[nibble], e)
	}
	nibbles := make([]uint8, 0, len(groups))
	for n := range groups {
		nibbles = append(nibbles, n)
	}
	sort.Slice(nibbles, func(i, j int) bool { return nibbles[i] < nibbles[j] })

	plan := &offsetMapPlan{}
	for _, n := range nibbles {
		plan.bitmap |= 1 << n
		plan.children = append(plan.children, offsetMapChild{
			nibble: n,
			node:   buildOffsetMapNode(groups[n], depth+1),
		})
	}
	return plan
}

// writeOffsetMapNode appends plan's node graph, writing only branch
// and leaf structure nodes; every key and value referenced was encoded
// already and is reused by offset.
func writeOffsetMapNode(dst []byte, plan *offsetMapPlan) ([]byte, uint32, error) {
	if plan.isLeaf {
		refs := make([]codec.MapEntryRef, len(plan.entries))
		for i, e := range plan.entries {
			refs[i] = codec.MapEntryRef{KeyOffset: e.keyOffset, ValueOffset: e.valueOffset}
		}
		payload := codec.EncodeMapLeaf(refs)
		return codec.WriteContainerNode(dst, value.Map, true, false, payload)
	}
	children := make([]uint32, len(plan.children))
	for i, c := range plan.children {
		var off uint32
		var err error
		dst, off, err = writeOffsetMapNode(dst, c.node)
		if err != nil {
			return nil, 0, err
		}
		children[i] = off
	}
	payload := codec.EncodeMapBranch(plan.bitmap, children)
	return codec.WriteContainerNode(dst, value.Map, false, false, payload)
}

// insertUint32 returns a copy of s with v inserted at index i.
func insertUint32(s []uint32, i int, v uint32) []uint32 {
	out := make([]uint32, len(s)+1)
	copy(out, s[:i])
	out[i] = v
	copy(out[i+1:], s[i:])
	return out
}
