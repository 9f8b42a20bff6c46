package codec

import (
	"github.com/signadot/tron-format/tron/trerr"
	"github.com/signadot/tron-format/tron/wire"
)

// ArrayRootHeader carries the length field only the root array node
// stores, alongside the shift every array node carries.
type ArrayRootHeader struct {
	Shift  uint8
	Length uint32
}

// EncodeArrayRoot builds the root array node's payload: shift, bitmap,
// length, then one child/value offset per set bit in rank order.
func EncodeArrayRoot(shift uint8, bitmap uint16, length uint32, offsets []uint32) []byte {
	payload := make([]byte, 1+2+4+4*len(offsets))
	payload[0] = shift
	wire.PutUint16(payload[1:], bitmap)
	wire.PutUint32(payload[3:], length)
	for i, o := range offsets {
		wire.PutUint32(payload[7+i*4:], o)
	}
	return payload
}

// DecodeArrayRoot parses a root array node's payload.
func DecodeArrayRoot(payload []byte) (ArrayRootHeader, uint16, []uint32, error) {
	if err := need(payload, 0, 7); err != nil {
		return ArrayRootHeader{}, 0, nil, err
	}
	shift := payload[0]
	bitmap := wire.Uint16(payload[1:])
	length := wire.Uint32(payload[3:])
	count := wire.Popcount16(bitmap)
	if len(payload) != 7+4*count {
		return ArrayRootHeader{}, 0, nil, trerr.New(trerr.Len, "array root payload length %d does not match bitmap popcount %d", len(payload), count)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = wire.Uint32(payload[7+i*4:])
	}
	return ArrayRootHeader{Shift: shift, Length: length}, bitmap, offsets, nil
}

// EncodeArrayNode builds a non-root array node's payload: shift,
// bitmap, then one child/value offset per set bit in rank order.
func EncodeArrayNode(shift uint8, bitmap uint16, offsets []uint32) []byte {
	payload := make([]byte, 1+2+4*len(offsets))
	payload[0] = shift
	wire.PutUint16(payload[1:], bitmap)
	for i, o := range offsets {
		wire.PutUint32(payload[3+i*4:], o)
	}
	return payload
}

// DecodeArrayNode parses a non-root array node's payload.
func DecodeArrayNode(payload []byte) (uint8, uint16, []uint32, error) {
	if err := need(payload, 0, 3); err != nil {
		return 0, 0, nil, err
	}
	shift := payload[0]
	bitmap := wire.Uint16(payload[1:])
	count := wire.Popcount16(bitmap)
	if len(payload) != 3+4*count {
		return 0, 0, nil, trerr.New(trerr.Len, "array node payload length %d does not match bitmap popcount %d", len(payload), count)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = wire.Uint32(payload[3+i*4:])
	}
	return shift, bitmap, offsets, nil
}

// ArrayChildSlot returns the physical index into a node's offsets
// slice for the given raw slot (0-15), and whether that slot is
// actually populated.
func ArrayChildSlot(bitmap uint16, slot uint) (int, bool) {
	if bitmap&(1<<slot) == 0 {
		return 0, false
	}
	return wire.RankBelow16(bitmap, slot), true
}
