// Package tree builds the in-memory shape of a map's HAMT and an
// array's radix-16 trie from a flat list of entries/values, before any
// bytes are written. The encoder walks the resulting plan bottom-up,
// assigning each node an offset as it is appended.
//
// Grounded on the node-building style of go-tony/system/logd/storage's
// B-tree index builder (storage/index/build.go): a pure, allocation-only
// pass over the logical entries that produces a node plan, kept
// entirely separate from the I/O that later serializes it.
package tree
