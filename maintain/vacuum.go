package maintain

import (
	"log/slog"

	"github.com/signadot/tron-format/tron/codec"
	"github.com/signadot/tron-format/tron/internal/trondebug"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/wire"
)

// Vacuum rewrites buf keeping only the nodes reachable from the
// current root, compacted with no gaps, and sets prevRootOffset to
// zero: the document's mutation history is discarded, but the kept
// tree's shape (which nodes are leaves vs. branches) is preserved
// exactly as found.
func Vacuum(buf []byte) ([]byte, error) {
	rootOffset, prevRoot, err := wire.Footer(buf)
	if err != nil {
		return nil, err
	}
	if trondebug.Vacuum() {
		slog.Default().Debug("maintain.Vacuum", "root", rootOffset, "prevRoot", prevRoot, "size", len(buf))
	}
	dst := append([]byte(nil), wire.Magic[:]...)
	memo := make(map[uint32]uint32)
	dst, newRoot, err := vacuumNode(buf, dst, rootOffset, memo)
	if err != nil {
		return nil, err
	}
	return appendFooter(dst, newRoot, 0), nil
}

func appendFooter(buf []byte, rootOffset, prevRootOffset uint32) []byte {
	footer := make([]byte, wire.FooterSize)
	wire.PutUint32(footer, rootOffset)
	wire.PutUint32(footer[4:], prevRootOffset)
	return append(buf, footer...)
}

// vacuumNode copies the node at offset (and everything it references)
// into dst, memoizing old-to-new offsets so a node reached more than
// once is only ever copied once.
func vacuumNode(buf, dst []byte, offset uint32, memo map[uint32]uint32) ([]byte, uint32, error) {
	if newOff, ok := memo[offset]; ok {
		return dst, newOff, nil
	}
	var newOff uint32
	var err error
	switch codec.Kind(buf[offset]) {
	case value.Map:
		dst, newOff, err = vacuumMapNode(buf, dst, offset, memo)
	case value.Array:
		dst, newOff, err = vacuumArrayNode(buf, dst, offset, memo)
	default:
		dst, newOff, err = vacuumScalar(buf, dst, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	memo[offset] = newOff
	return dst, newOff, nil
}

func vacuumScalar(buf, dst []byte, offset uint32) ([]byte, uint32, error) {
	_, next, err := codec.ReadScalar(buf, offset)
	if err != nil {
		return nil, 0, err
	}
	newOff := uint32(len(dst))
	dst = append(dst, buf[offset:next]...)
	return dst, newOff, nil
}

func vacuumMapNode(buf, dst []byte, offset uint32, memo map[uint32]uint32) ([]byte, uint32, error) {
	hdr, err := codec.ReadContainerHeader(buf, offset)
	if err != nil {
		return nil, 0, err
	}
	payload := buf[hdr.PayloadOff:hdr.PayloadEnd]
	if hdr.IsLeaf {
		refs, err := codec.DecodeMapLeaf(payload)
		if err != nil {
			return nil, 0, err
		}
		newRefs := make([]codec.MapEntryRef, len(refs))
		for i, r := range refs {
			var keyOff, valOff uint32
			dst, keyOff, err = vacuumNode(buf, dst, r.KeyOffset, memo)
			if err != nil {
				return nil, 0, err
			}
			dst, valOff, err = vacuumNode(buf, dst, r.ValueOffset, memo)
			if err != nil {
				return nil, 0, err
			}
			newRefs[i] = codec.MapEntryRef{KeyOffset: keyOff, ValueOffset: valOff}
		}
		newPayload := codec.EncodeMapLeaf(newRefs)
		return codec.WriteContainerNode(dst, value.Map, true, false, newPayload)
	}
	bitmap, children, err := codec.DecodeMapBranch(payload)
	if err != nil {
		return nil, 0, err
	}
	newChildren := make([]uint32, len(children))
	for i, c := range children {
		var childOff uint32
		dst, childOff, err = vacuumNode(buf, dst, c, memo)
		if err != nil {
			return nil, 0, err
		}
		newChildren[i] = childOff
	}
	newPayload := codec.EncodeMapBranch(bitmap, newChildren)
	return codec.WriteContainerNode(dst, value.Map, false, false, newPayload)
}

func vacuumArrayNode(buf, dst []byte, offset uint32, memo map[uint32]uint32) ([]byte, uint32, error) {
	hdr, err := codec.ReadContainerHeader(buf, offset)
	if err != nil {
		return nil, 0, err
	}
	payload := buf[hdr.PayloadOff:hdr.PayloadEnd]
	if !hdr.IsNonRoot {
		rootHdr, bitmap, offsets, err := codec.DecodeArrayRoot(payload)
		if err != nil {
			return nil, 0, err
		}
		newOffsets, dst2, err := vacuumArrayChildren(buf, dst, offsets, memo)
		if err != nil {
			return nil, 0, err
		}
		newPayload := codec.EncodeArrayRoot(rootHdr.Shift, bitmap, rootHdr.Length, newOffsets)
		return codec.WriteContainerNode(dst2, value.Array, rootHdr.Shift == 0, false, newPayload)
	}
	shift, bitmap, offsets, err := codec.DecodeArrayNode(payload)
	if err != nil {
		return nil, 0, err
	}
	newOffsets, dst2, err := vacuumArrayChildren(buf, dst, offsets, memo)
	if err != nil {
		return nil, 0, err
	}
	newPayload := codec.EncodeArrayNode(shift, bitmap, newOffsets)
	return codec.WriteContainerNode(dst2, value.Array, shift == 0, true, newPayload)
}

func vacuumArrayChildren(buf, dst []byte, offsets []uint32, memo map[uint32]uint32) ([]uint32, []byte, error) {
	newOffsets := make([]uint32, len(offsets))
	for i, o := range offsets {
		var newOff uint32
		var err error
		dst, newOff, err = vacuumNode(buf, dst, o, memo)
		if err != nil {
			return nil, nil, err
		}
		newOffsets[i] = newOff
	}
	return newOffsets, dst, nil
}
