package codec

import (
	"github.com/signadot/tron-format/tron/trerr"
	"github.com/signadot/tron-format/tron/wire"
)

// MapEntryRef is one (keyOffset, valueOffset) pair stored in a map
// leaf node's payload.
type MapEntryRef struct {
	KeyOffset   uint32
	ValueOffset uint32
}

// EncodeMapLeaf builds a map leaf node's payload: entries packed as
// consecutive (keyOffset, valueOffset) uint32LE pairs. The entry count
// is not stored explicitly; it is recovered from the payload length at
// decode time.
func EncodeMapLeaf(entries []MapEntryRef) []byte {
	payload := make([]byte, len(entries)*8)
	for i, e := range entries {
		wire.PutUint32(payload[i*8:], e.KeyOffset)
		wire.PutUint32(payload[i*8+4:], e.ValueOffset)
	}
	return payload
}

// DecodeMapLeaf parses a map leaf node's payload back into entry refs.
func DecodeMapLeaf(payload []byte) ([]MapEntryRef, error) {
	if len(payload)%8 != 0 {
		return nil, trerr.New(trerr.Len, "map leaf payload length %d is not a multiple of 8", len(payload))
	}
	n := len(payload) / 8
	entries := make([]MapEntryRef, n)
	for i := range entries {
		entries[i] = MapEntryRef{
			KeyOffset:   wire.Uint32(payload[i*8:]),
			ValueOffset: wire.Uint32(payload[i*8+4:]),
		}
	}
	return entries, nil
}

// EncodeMapBranch builds a map branch node's payload: a 32-bit bitmap
// (only the low 16 bits, one per nibble value 0-15, are ever set)
// followed by one child offset per set bit in rank order (least
// significant bit first).
func EncodeMapBranch(bitmap uint32, children []uint32) []byte {
	payload := make([]byte, 4+4*len(children))
	wire.PutUint32(payload, bitmap)
	for i, c := range children {
		wire.PutUint32(payload[4+i*4:], c)
	}
	return payload
}

// DecodeMapBranch parses a map branch node's payload into its bitmap
// and rank-ordered child offsets.
func DecodeMapBranch(payload []byte) (uint32, []uint32, error) {
	if err := need(payload, 0, 4); err != nil {
		return 0, nil, err
	}
	bitmap := wire.Uint32(payload)
	count := wire.Popcount32(bitmap)
	if len(payload) != 4+4*count {
		return 0, nil, trerr.New(trerr.Len, "map branch payload length %d does not match bitmap popcount %d", len(payload), count)
	}
	children := make([]uint32, count)
	for i := range children {
		children[i] = wire.Uint32(payload[4+i*4:])
	}
	return bitmap, children, nil
}

// MapChildSlot returns the physical index into a branch's children
// slice for the child occupying the given nibble slot (0-15), and
// whether that slot is actually populated.
func MapChildSlot(bitmap uint32, slot uint) (int, bool) {
	if bitmap&(1<<slot) == 0 {
		return 0, false
	}
	return wire.RankBelow32(bitmap, slot), true
}
