package nav

import (
	"log/slog"

	"github.com/signadot/tron-format/tron/codec"
	"github.com/signadot/tron-format/tron/internal/trondebug"
	"github.com/signadot/tron-format/tron/trerr"
	"github.com/signadot/tron-format/tron/tree"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/xxhash32"
)

// Resolve walks path starting at offset, touching only the nodes on
// the path, and returns the offset of the node the path lands on.
// found is false when a key or index along the path does not exist;
// err is non-nil only for structural corruption or a path/type
// mismatch (e.g. a field segment against an array). cache, if
// non-nil, memoizes key hashes across calls (e.g. a view's lifetime).
func Resolve(buf []byte, offset uint32, path value.Path, cache map[string]uint32) (uint32, bool, error) {
	if trondebug.Resolve() {
		slog.Default().Debug("nav.Resolve", "offset", offset, "path", path.String())
	}
	cur := offset
	for _, seg := range path {
		if cur >= uint32(len(buf)) {
			return 0, false, trerr.New(trerr.Off, "offset %d outside buffer of length %d", cur, len(buf))
		}
		kind := codec.Kind(buf[cur])
		switch {
		case seg.IsField():
			if kind != value.Map {
				return 0, false, trerr.New(trerr.Path, "field segment %q against non-map node", seg.FieldName())
			}
			next, found, err := NavigateMap(buf, cur, seg.FieldName(), cache)
			if err != nil || !found {
				return 0, found, err
			}
			cur = next
		default:
			if kind != value.Array {
				return 0, false, trerr.New(trerr.Path, "index segment [%d] against non-array node", seg.IndexValue())
			}
			if seg.IndexValue() < 0 {
				return 0, false, trerr.New(trerr.Range, "negative array index %d", seg.IndexValue())
			}
			next, found, err := NavigateArray(buf, cur, uint32(seg.IndexValue()))
			if err != nil || !found {
				return 0, found, err
			}
			cur = next
		}
	}
	return cur, true, nil
}

// NavigateMap resolves a single key against the map node at offset,
// descending the HAMT by hash nibble and falling back to a
// byte-compare scan once a leaf is reached.
func NavigateMap(buf []byte, offset uint32, key string, cache map[string]uint32) (uint32, bool, error) {
	hash, ok := cache[key]
	if !ok {
		hash = xxhash32.KeyHash(key)
		if cache != nil {
			cache[key] = hash
		}
	}
	depth := 0
	for {
		hdr, err := codec.ReadContainerHeader(buf, offset)
		if err != nil {
			return 0, false, err
		}
		payload := buf[hdr.PayloadOff:hdr.PayloadEnd]
		if hdr.IsLeaf {
			refs, err := codec.DecodeMapLeaf(payload)
			if err != nil {
				return 0, false, err
			}
			for _, ref := range refs {
				keyVal, _, err := codec.ReadScalar(buf, ref.KeyOffset)
				if err != nil {
					return 0, false, err
				}
				if keyVal.Kind() == value.Text && keyVal.Text() == key {
					return ref.ValueOffset, true, nil
				}
			}
			return 0, false, nil
		}
		if depth >= tree.MaxMapDepth {
			return 0, false, trerr.New(trerr.Depth, "HAMT depth exceeded without reaching a leaf")
		}
		bitmap, children, err := codec.DecodeMapBranch(payload)
		if err != nil {
			return 0, false, err
		}
		nibble := uint(xxhash32.Nibble(hash, depth))
		idx, ok := codec.MapChildSlot(bitmap, nibble)
		if !ok {
			return 0, false, nil
		}
		offset = children[idx]
		depth++
	}
}

// NavigateArray resolves a single dense index against the array node
// at offset, which must be the root node (it alone carries length).
func NavigateArray(buf []byte, offset uint32, index uint32) (uint32, bool, error) {
	hdr, err := codec.ReadContainerHeader(buf, offset)
	if err != nil {
		return 0, false, err
	}
	payload := buf[hdr.PayloadOff:hdr.PayloadEnd]
	rootHdr, bitmap, offsets, err := codec.DecodeArrayRoot(payload)
	if err != nil {
		return 0, false, err
	}
	if index >= rootHdr.Length {
		return 0, false, nil
	}
	return descendArray(buf, rootHdr.Shift, 0, bitmap, offsets, index)
}

func descendArray(buf []byte, shift uint8, base uint32, bitmap uint16, offsets []uint32, index uint32) (uint32, bool, error) {
	slot := uint((index - base) >> shift & 0xF)
	idx, ok := codec.ArrayChildSlot(bitmap, slot)
	if !ok {
		return 0, false, nil
	}
	childOffset := offsets[idx]
	if shift == 0 {
		return childOffset, true, nil
	}
	hdr, err := codec.ReadContainerHeader(buf, childOffset)
	if err != nil {
		return 0, false, err
	}
	payload := buf[hdr.PayloadOff:hdr.PayloadEnd]
	childShift, childBitmap, childOffsets, err := codec.DecodeArrayNode(payload)
	if err != nil {
		return 0, false, err
	}
	childBase := base + uint32(slot)<<shift
	return descendArray(buf, childShift, childBase, childBitmap, childOffsets, index)
}
