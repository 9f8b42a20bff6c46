package encoding

import (
	"github.com/signadot/tron-format/tron/codec"
	"github.com/signadot/tron-format/tron/tree"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/wire"
)

// Encode serializes v into a complete TRON buffer: magic, the value's
// node graph, and a footer whose prevRootOffset is zero.
func Encode(v value.Value) ([]byte, error) {
	buf := append([]byte(nil), wire.Magic[:]...)
	buf, rootOffset, err := WriteValue(buf, v)
	if err != nil {
		return nil, err
	}
	return appendFooter(buf, rootOffset, 0), nil
}

// appendFooter appends the fixed 8-byte trailer.
func appendFooter(buf []byte, rootOffset, prevRootOffset uint32) []byte {
	footer := make([]byte, wire.FooterSize)
	wire.PutUint32(footer, rootOffset)
	wire.PutUint32(footer[4:], prevRootOffset)
	return append(buf, footer...)
}

// WriteValue appends v's node graph to dst, writing descendants
// before ancestors, and returns the updated slice plus the offset the
// top-level node was written at.
func WriteValue(dst []byte, v value.Value) ([]byte, uint32, error) {
	switch v.Kind() {
	case value.Array:
		return writeArray(dst, v)
	case value.Map:
		return writeMap(dst, v)
	default:
		offset := uint32(len(dst))
		dst, err := codec.WriteScalar(dst, v)
		if err != nil {
			return nil, 0, err
		}
		return dst, offset, nil
	}
}

func writeMap(dst []byte, v value.Value) ([]byte, uint32, error) {
	entries := v.Entries()
	plan := tree.BuildMap(entries)
	return writeMapNode(dst, plan, true)
}

func writeMapNode(dst []byte, node *tree.MapNode, isRoot bool) ([]byte, uint32, error) {
	if node.IsLeaf {
		refs := make([]codec.MapEntryRef, len(node.Entries))
		for i, e := range node.Entries {
			var keyOffset, valueOffset uint32
			var err error
			dst, keyOffset, err = WriteValue(dst, value.TextValue(e.Key))
			if err != nil {
				return nil, 0, err
			}
			dst, valueOffset, err = WriteValue(dst, e.Value)
			if err != nil {
				return nil, 0, err
			}
			refs[i] = codec.MapEntryRef{KeyOffset: keyOffset, ValueOffset: valueOffset}
		}
		payload := codec.EncodeMapLeaf(refs)
		return codec.WriteContainerNode(dst, value.Map, true, false, payload)
	}

	children := make([]uint32, len(node.Children))
	for i, c := range node.Children {
		var childOffset uint32
		var err error
		dst, childOffset, err = writeMapNode(dst, c.Node, false)
		if err != nil {
			return nil, 0, err
		}
		children[i] = childOffset
	}
	payload := codec.EncodeMapBranch(node.Bitmap, children)
	return codec.WriteContainerNode(dst, value.Map, false, false, payload)
}

func writeArray(dst []byte, v value.Value) ([]byte, uint32, error) {
	root := tree.BuildArrayRoot(v.Elems())
	return writeArrayNode(dst, root.Node, root.Length, true)
}

// writeArrayNode writes node bottom-up. length is only meaningful
// (and only written into the payload) when isRoot is true.
func writeArrayNode(dst []byte, node *tree.ArrayNode, length uint32, isRoot bool) ([]byte, uint32, error) {
	offsets := make([]uint32, len(node.Children))
	if node.Shift == 0 {
		for i, c := range node.Children {
			var off uint32
			var err error
			dst, off, err = WriteValue(dst, c.Value)
			if err != nil {
				return nil, 0, err
			}
			offsets[i] = off
		}
	} else {
		for i, c := range node.Children {
			var off uint32
			var err error
			dst, off, err = writeArrayNode(dst, c.Node, 0, false)
			if err != nil {
				return nil, 0, err
			}
			offsets[i] = off
		}
	}

	var payload []byte
	if isRoot {
		payload = codec.EncodeArrayRoot(node.Shift, node.Bitmap, length, offsets)
	} else {
		payload = codec.EncodeArrayNode(node.Shift, node.Bitmap, offsets)
	}
	return codec.WriteContainerNode(dst, value.Array, node.Shift == 0, !isRoot, payload)
}
