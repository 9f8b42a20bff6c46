package view

import (
	"github.com/signadot/tron-format/tron/codec"
	"github.com/signadot/tron-format/tron/trerr"
	"github.com/signadot/tron-format/tron/value"
)

// Decode fully materializes the node at offset, recursing into every
// descendant. Used when a navigated path lands on a container (the
// whole subtree becomes the returned value.Value) and by the
// maintenance passes, which always need the full logical document.
func Decode(buf []byte, offset uint32) (value.Value, error) {
	if int(offset) >= len(buf) {
		return value.Value{}, trerr.New(trerr.Off, "offset %d outside buffer of length %d", offset, len(buf))
	}
	kind := codec.Kind(buf[offset])
	switch kind {
	case value.Array:
		return decodeArray(buf, offset)
	case value.Map:
		return decodeMap(buf, offset)
	default:
		v, _, err := codec.ReadScalar(buf, offset)
		return v, err
	}
}

func decodeMap(buf []byte, offset uint32) (value.Value, error) {
	hdr, err := codec.ReadContainerHeader(buf, offset)
	if err != nil {
		return value.Value{}, err
	}
	payload := buf[hdr.PayloadOff:hdr.PayloadEnd]
	m := make(map[string]value.Value)
	if err := decodeMapNode(buf, hdr, payload, m); err != nil {
		return value.Value{}, err
	}
	return value.MapValue(m), nil
}

func decodeMapNode(buf []byte, hdr codec.ContainerHeader, payload []byte, out map[string]value.Value) error {
	if hdr.IsLeaf {
		refs, err := codec.DecodeMapLeaf(payload)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			keyVal, _, err := codec.ReadScalar(buf, ref.KeyOffset)
			if err != nil {
				return err
			}
			if keyVal.Kind() != value.Text {
				return trerr.New(trerr.Type, "map leaf key at offset %d is not txt", ref.KeyOffset)
			}
			valVal, err := Decode(buf, ref.ValueOffset)
			if err != nil {
				return err
			}
			out[keyVal.Text()] = valVal
		}
		return nil
	}
	_, children, err := codec.DecodeMapBranch(payload)
	if err != nil {
		return err
	}
	for _, childOffset := range children {
		childHdr, err := codec.ReadContainerHeader(buf, childOffset)
		if err != nil {
			return err
		}
		childPayload := buf[childHdr.PayloadOff:childHdr.PayloadEnd]
		if err := decodeMapNode(buf, childHdr, childPayload, out); err != nil {
			return err
		}
	}
	return nil
}

func decodeArray(buf []byte, offset uint32) (value.Value, error) {
	hdr, err := codec.ReadContainerHeader(buf, offset)
	if err != nil {
		return value.Value{}, err
	}
	payload := buf[hdr.PayloadOff:hdr.PayloadEnd]
	rootHdr, bitmap, offsets, err := codec.DecodeArrayRoot(payload)
	if err != nil {
		return value.Value{}, err
	}
	out := make([]value.Value, rootHdr.Length)
	if err := decodeArraySlots(buf, rootHdr.Shift, 0, bitmap, offsets, out); err != nil {
		return value.Value{}, err
	}
	return value.ArrayValue(out), nil
}

func decodeArraySlots(buf []byte, shift uint8, base uint32, bitmap uint16, offsets []uint32, out []value.Value) error {
	rank := 0
	for slot := uint(0); slot < 16; slot++ {
		if bitmap&(1<<slot) == 0 {
			continue
		}
		childOffset := offsets[rank]
		rank++
		if shift == 0 {
			idx := base + uint32(slot)
			if int(idx) >= len(out) {
				continue
			}
			v, err := Decode(buf, childOffset)
			if err != nil {
				return err
			}
			out[idx] = v
			continue
		}
		childHdr, err := codec.ReadContainerHeader(buf, childOffset)
		if err != nil {
			return err
		}
		childPayload := buf[childHdr.PayloadOff:childHdr.PayloadEnd]
		childShift, childBitmap, childOffsets, err := codec.DecodeArrayNode(childPayload)
		if err != nil {
			return err
		}
		childBase := base + uint32(slot)<<shift
		if err := decodeArraySlots(buf, childShift, childBase, childBitmap, childOffsets, out); err != nil {
			return err
		}
	}
	return nil
}
