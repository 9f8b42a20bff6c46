package wire

import (
	"math"
	"math/bits"

	"github.com/signadot/tron-format/tron/trerr"
)

// Magic is the 4-byte marker every TRON document begins with.
var Magic = [4]byte{'T', 'R', 'O', 'N'}

// FooterSize is the fixed trailer size: root_offset + prev_root_offset.
const FooterSize = 8

// PutUint32 writes v as 4 little-endian bytes at b[0:4].
func PutUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Uint32 reads 4 little-endian bytes from b[0:4].
func Uint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// PutUint16 writes v as 2 little-endian bytes at b[0:2].
func PutUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// Uint16 reads 2 little-endian bytes from b[0:2].
func Uint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// PutInt64 writes v as 8 little-endian two's-complement bytes.
func PutInt64(b []byte, v int64) {
	PutUint64(b, uint64(v))
}

// Int64 reads 8 little-endian two's-complement bytes.
func Int64(b []byte) int64 {
	return int64(Uint64(b))
}

// PutUint64 writes v as 8 little-endian bytes.
func PutUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// Uint64 reads 8 little-endian bytes.
func Uint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// PutFloat64 writes v as 8 little-endian IEEE-754 bytes.
func PutFloat64(b []byte, v float64) {
	PutUint64(b, math.Float64bits(v))
}

// Float64 reads 8 little-endian IEEE-754 bytes.
func Float64(b []byte) float64 {
	return math.Float64frombits(Uint64(b))
}

// PutUintN writes the low n bytes of v, little-endian, into b[0:n].
// n must be in [1,8].
func PutUintN(b []byte, v uint64, n int) {
	for i := 0; i < n; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// UintN reads n little-endian bytes from b[0:n] into a uint64. n must
// be in [1,8].
func UintN(b []byte, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// BytesForUint returns the minimum byte width in [1,max] able to hold
// v, or an error if v overflows max bytes.
func BytesForUint(v uint64, max int) (int, error) {
	for n := 1; n <= max; n++ {
		if n == 8 || v < uint64(1)<<(8*uint(n)) {
			return n, nil
		}
	}
	return 0, trerr.New(trerr.Len, "value %d does not fit in %d bytes", v, max)
}

// Popcount16 returns the number of set bits in the low 16 bits of v,
// used to convert an array-node bitmap slot into a physical child
// index via rank.
func Popcount16(v uint16) int {
	return bits.OnesCount16(v)
}

// Popcount32 returns the number of set bits in v, used for map-branch
// bitmaps (stored as a 4-byte field, 16 slots in the low bits).
func Popcount32(v uint32) int {
	return bits.OnesCount32(v)
}

// RankBelow32 returns popcount(bitmap & ((1<<slot)-1)), the physical
// index of slot's child within a compacted child array.
func RankBelow32(bitmap uint32, slot uint) int {
	mask := uint32(1)<<slot - 1
	return bits.OnesCount32(bitmap & mask)
}

// RankBelow16 is RankBelow32 for 16-bit array-node bitmaps.
func RankBelow16(bitmap uint16, slot uint) int {
	mask := uint16(1)<<slot - 1
	return bits.OnesCount16(bitmap & mask)
}
