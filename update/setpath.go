package update

import (
	"log/slog"

	"github.com/signadot/tron-format/tron/codec"
	"github.com/signadot/tron-format/tron/encoding"
	"github.com/signadot/tron-format/tron/internal/trondebug"
	"github.com/signadot/tron-format/tron/trerr"
	"github.com/signadot/tron-format/tron/tree"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/wire"
	"github.com/signadot/tron-format/tron/xxhash32"
)

// SetPath returns a new buffer representing buf's document with value
// installed at path. Every sibling subtree off path is referenced by
// its existing offset; only the spine from the root to the updated
// leaf is freshly appended. The new footer's prevRootOffset chains to
// buf's old root.
func SetPath(buf []byte, path value.Path, v value.Value) ([]byte, error) {
	oldRoot, _, err := wire.Footer(buf)
	if err != nil {
		return nil, err
	}
	if trondebug.Update() {
		slog.Default().Debug("update.SetPath", "path", path.String(), "oldRoot", oldRoot)
	}
	body := append([]byte(nil), buf[:len(buf)-wire.FooterSize]...)

	if len(path) == 0 {
		newBody, newRoot, err := encoding.WriteValue(body, v)
		if err != nil {
			return nil, err
		}
		return appendFooter(newBody, newRoot, oldRoot), nil
	}

	newBody, newRoot, err := rebuildRoot(body, oldRoot, path, v)
	if err != nil {
		return nil, err
	}
	return appendFooter(newBody, newRoot, oldRoot), nil
}

func appendFooter(buf []byte, rootOffset, prevRootOffset uint32) []byte {
	footer := make([]byte, wire.FooterSize)
	wire.PutUint32(footer, rootOffset)
	wire.PutUint32(footer[4:], prevRootOffset)
	return append(buf, footer...)
}

func rebuildRoot(dst []byte, rootOffset uint32, path value.Path, v value.Value) ([]byte, uint32, error) {
	return rebuildValueAt(dst, rootOffset, path, v)
}

// rebuildValueAt rebuilds the value currently stored at offset so that
// v ends up installed at rest relative to it. If rest is empty, offset's
// value is replaced outright; otherwise the existing node at offset is
// read and descended into (dispatching on its actual kind), so every
// sibling entry/child off the new spine is reused by its existing
// offset rather than rebuilt from scratch. This is what lets a nested
// setPath reuse everything but the path it touches, for the root as
// well as for any existing child found while rebuilding a map or array.
func rebuildValueAt(dst []byte, offset uint32, rest value.Path, v value.Value) ([]byte, uint32, error) {
	if len(rest) == 0 {
		return encoding.WriteValue(dst, v)
	}
	seg := rest[0]
	kind := codec.Kind(dst[offset])
	switch {
	case seg.IsField():
		if kind != value.Map {
			return nil, 0, trerr.New(trerr.Path, "field segment %q against non-map value", seg.FieldName())
		}
		hash := xxhash32.KeyHash(seg.FieldName())
		return rebuildMapNode(dst, offset, true, hash, 0, seg.FieldName(), rest[1:], v)
	default:
		if kind != value.Array {
			return nil, 0, trerr.New(trerr.Path, "index segment [%d] against non-array value", seg.IndexValue())
		}
		if seg.IndexValue() < 0 {
			return nil, 0, trerr.New(trerr.Range, "negative array index %d", seg.IndexValue())
		}
		return rebuildArrayRoot(dst, offset, uint32(seg.IndexValue()), rest[1:], v)
	}
}

// writeKeyScalar writes a txt node for a map key.
func writeKeyScalar(dst []byte, key string) ([]byte, uint32, error) {
	return encoding.WriteValue(dst, value.TextValue(key))
}

// writeFreshAtPath builds a brand-new nested structure implied by
// path, with v at the bottom: a single-entry map for each field
// segment, a length-(index+1) array with only that one slot populated
// for each index segment. Used whenever a path segment references a
// container that does not yet exist.
func writeFreshAtPath(dst []byte, path value.Path, v value.Value) ([]byte, uint32, error) {
	if len(path) == 0 {
		return encoding.WriteValue(dst, v)
	}
	seg := path[0]
	rest := path[1:]
	if seg.IsField() {
		dst, valOffset, err := writeFreshAtPath(dst, rest, v)
		if err != nil {
			return nil, 0, err
		}
		dst, keyOffset, err := writeKeyScalar(dst, seg.FieldName())
		if err != nil {
			return nil, 0, err
		}
		payload := codec.EncodeMapLeaf([]codec.MapEntryRef{{KeyOffset: keyOffset, ValueOffset: valOffset}})
		return codec.WriteContainerNode(dst, value.Map, true, false, payload)
	}

	idx := seg.IndexValue()
	if idx < 0 {
		return nil, 0, trerr.New(trerr.Range, "negative array index %d", idx)
	}
	shift := tree.RootShift(uint32(idx) + 1)
	newBitmap, newOffsets, dst, err := rebuildArraySlots(dst, shift, 0, 0, nil, uint32(idx), rest, v)
	if err != nil {
		return nil, 0, err
	}
	payload := codec.EncodeArrayRoot(shift, newBitmap, uint32(idx)+1, newOffsets)
	return codec.WriteContainerNode(dst, value.Array, shift == 0, false, payload)
}

// rebuildMapNode rebuilds the path from a map node down to key,
// reusing every sibling entry/child offset unchanged.
func rebuildMapNode(dst []byte, nodeOffset uint32, hasNode bool, hash uint32, depth int, key string, rest value.Path, v value.Value) ([]byte, uint32, error) {
	if !hasNode {
		dst2, valOffset, err := writeFreshAtPath(dst, rest, v)
		if err != nil {
			return nil, 0, err
		}
		dst3, keyOffset, err := writeKeyScalar(dst2, key)
		if err != nil {
			return nil, 0, err
		}
		payload := codec.EncodeMapLeaf([]codec.MapEntryRef{{KeyOffset: keyOffset, ValueOffset: valOffset}})
		return codec.WriteContainerNode(dst3, value.Map, true, false, payload)
	}

	hdr, err := codec.ReadContainerHeader(dst, nodeOffset)
	if err != nil {
		return nil, 0, err
	}
	if hdr.Kind != value.Map {
		return nil, 0, trerr.New(trerr.Path, "field segment %q against non-map node", key)
	}
	payload := dst[hdr.PayloadOff:hdr.PayloadEnd]

	if hdr.IsLeaf {
		refs, err := codec.DecodeMapLeaf(payload)
		if err != nil {
			return nil, 0, err
		}
		existing := make([]rawMapEntry, len(refs))
		foundIdx := -1
		for i, ref := range refs {
			keyVal, _, err := codec.ReadScalar(dst, ref.KeyOffset)
			if err != nil {
				return nil, 0, err
			}
			existing[i] = rawMapEntry{
				key:         keyVal.Text(),
				hash:        xxhash32.KeyHash(keyVal.Text()),
				keyOffset:   ref.KeyOffset,
				valueOffset: ref.ValueOffset,
			}
			if existing[i].key == key {
				foundIdx = i
			}
		}
		if foundIdx >= 0 {
			newDst, valOffset, err := rebuildValueAt(dst, existing[foundIdx].valueOffset, rest, v)
			if err != nil {
				return nil, 0, err
			}
			existing[foundIdx].valueOffset = valOffset
			return writeOffsetMapNode(newDst, &offsetMapPlan{isLeaf: true, entries: existing})
		}
		newDst, valOffset, err := writeFreshAtPath(dst, rest, v)
		if err != nil {
			return nil, 0, err
		}
		newDst2, keyOffset, err := writeKeyScalar(newDst, key)
		if err != nil {
			return nil, 0, err
		}
		existing = append(existing, rawMapEntry{key: key, hash: hash, keyOffset: keyOffset, valueOffset: valOffset})
		plan := buildOffsetMapNode(existing, depth)
		return writeOffsetMapNode(newDst2, plan)
	}

	bitmap, children, err := codec.DecodeMapBranch(payload)
	if err != nil {
		return nil, 0, err
	}
	nibble := uint8(xxhash32.Nibble(hash, depth))
	slotIdx, exists := codec.MapChildSlot(bitmap, uint(nibble))
	if exists {
		childOffset := children[slotIdx]
		newDst, newChildOffset, err := rebuildMapNode(dst, childOffset, true, hash, depth+1, key, rest, v)
		if err != nil {
			return nil, 0, err
		}
		newChildren := append([]uint32(nil), children...)
		newChildren[slotIdx] = newChildOffset
		payload2 := codec.EncodeMapBranch(bitmap, newChildren)
		return codec.WriteContainerNode(newDst, value.Map, false, false, payload2)
	}
	newDst, newChildOffset, err := rebuildMapNode(dst, 0, false, hash, depth+1, key, rest, v)
	if err != nil {
		return nil, 0, err
	}
	rank := wire.RankBelow32(bitmap, uint(nibble))
	newChildren := insertUint32(children, rank, newChildOffset)
	newBitmap := bitmap | (1 << nibble)
	payload2 := codec.EncodeMapBranch(newBitmap, newChildren)
	return codec.WriteContainerNode(newDst, value.Map, false, false, payload2)
}

// rebuildArrayRoot handles the root-only concerns (length, shift
// growth via wrapping) before delegating to rebuildArraySlots for the
// generic radix descent.
func rebuildArrayRoot(dst []byte, nodeOffset uint32, index uint32, rest value.Path, v value.Value) ([]byte, uint32, error) {
	hdr, err := codec.ReadContainerHeader(dst, nodeOffset)
	if err != nil {
		return nil, 0, err
	}
	if hdr.Kind != value.Array {
		return nil, 0, trerr.New(trerr.Path, "index segment [%d] against non-array node", index)
	}
	payload := dst[hdr.PayloadOff:hdr.PayloadEnd]
	rootHdr, bitmap, offsets, err := codec.DecodeArrayRoot(payload)
	if err != nil {
		return nil, 0, err
	}

	newLength := rootHdr.Length
	if index+1 > newLength {
		newLength = index + 1
	}
	shift := rootHdr.Shift
	for (index >> shift) > 0xF {
		wrapped := codec.EncodeArrayNode(shift, bitmap, offsets)
		var wrappedOffset uint32
		dst, wrappedOffset, err = codec.WriteContainerNode(dst, value.Array, shift == 0, true, wrapped)
		if err != nil {
			return nil, 0, err
		}
		shift += 4
		bitmap = 1
		offsets = []uint32{wrappedOffset}
	}

	newBitmap, newOffsets, newDst, err := rebuildArraySlots(dst, shift, 0, bitmap, offsets, index, rest, v)
	if err != nil {
		return nil, 0, err
	}
	payload2 := codec.EncodeArrayRoot(shift, newBitmap, newLength, newOffsets)
	return codec.WriteContainerNode(newDst, value.Array, shift == 0, false, payload2)
}

// rebuildArraySlots rebuilds one level of the radix trie so that index
// resolves through rest to v, reusing every other populated slot's
// offset unchanged. An empty bitmap with nil offsets represents a
// not-yet-existing subtree (used both for brand-new slots and by
// writeFreshAtPath).
func rebuildArraySlots(dst []byte, shift uint8, base uint32, bitmap uint16, offsets []uint32, index uint32, rest value.Path, v value.Value) (uint16, []uint32, []byte, error) {
	slot := uint8((index - base) >> shift & 0xF)
	idx, exists := codec.ArrayChildSlot(bitmap, uint(slot))

	if shift == 0 {
		if exists {
			newDst, valOffset, err := rebuildValueAt(dst, offsets[idx], rest, v)
			if err != nil {
				return 0, nil, nil, err
			}
			newOffsets := append([]uint32(nil), offsets...)
			newOffsets[idx] = valOffset
			return bitmap, newOffsets, newDst, nil
		}
		newDst, valOffset, err := writeFreshAtPath(dst, rest, v)
		if err != nil {
			return 0, nil, nil, err
		}
		rank := wire.RankBelow16(bitmap, uint(slot))
		newOffsets := insertUint32(offsets, rank, valOffset)
		newBitmap := bitmap | (1 << slot)
		return newBitmap, newOffsets, newDst, nil
	}

	childBase := base + uint32(slot)<<shift
	if exists {
		childOffset := offsets[idx]
		childHdr, err := codec.ReadContainerHeader(dst, childOffset)
		if err != nil {
			return 0, nil, nil, err
		}
		childPayload := dst[childHdr.PayloadOff:childHdr.PayloadEnd]
		childShift, childBitmap, childOffsets, err := codec.DecodeArrayNode(childPayload)
		if err != nil {
			return 0, nil, nil, err
		}
		newChildBitmap, newChildOffsets, newDst, err := rebuildArraySlots(dst, childShift, childBase, childBitmap, childOffsets, index, rest, v)
		if err != nil {
			return 0, nil, nil, err
		}
		newChildPayload := codec.EncodeArrayNode(childShift, newChildBitmap, newChildOffsets)
		var newChildOffset uint32
		newDst, newChildOffset, err = codec.WriteContainerNode(newDst, value.Array, childShift == 0, true, newChildPayload)
		if err != nil {
			return 0, nil, nil, err
		}
		newOffsets := append([]uint32(nil), offsets...)
		newOffsets[idx] = newChildOffset
		return bitmap, newOffsets, newDst, nil
	}

	childShift := shift - 4
	newChildBitmap, newChildOffsets, newDst, err := rebuildArraySlots(dst, childShift, childBase, 0, nil, index, rest, v)
	if err != nil {
		return 0, nil, nil, err
	}
	newChildPayload := codec.EncodeArrayNode(childShift, newChildBitmap, newChildOffsets)
	newDst, newChildOffset, err := codec.WriteContainerNode(newDst, value.Array, childShift == 0, true, newChildPayload)
	if err != nil {
		return 0, nil, nil, err
	}
	rank := wire.RankBelow16(bitmap, uint(slot))
	newOffsets := insertUint32(offsets, rank, newChildOffset)
	newBitmap := bitmap | (1 << slot)
	return newBitmap, newOffsets, newDst, nil
}
