package codec

import (
	"github.com/signadot/tron-format/tron/trerr"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/wire"
)

// ContainerHeader describes a decoded arr/map node header: the type,
// whether it is a leaf, whether it is a non-root array node, and the
// byte range of its payload (the node's total span is [offset,
// PayloadEnd)).
type ContainerHeader struct {
	Kind       value.Kind
	IsLeaf     bool
	IsNonRoot  bool
	PayloadOff uint32
	PayloadEnd uint32
}

// ReadContainerHeader decodes the self-delimiting tag+length prefix of
// an arr/map node at offset, validating that the declared node length
// fits within buf.
func ReadContainerHeader(buf []byte, offset uint32) (ContainerHeader, error) {
	if err := need(buf, offset, 1); err != nil {
		return ContainerHeader{}, err
	}
	tag := buf[offset]
	kind := Kind(tag)
	if kind != value.Array && kind != value.Map {
		return ContainerHeader{}, trerr.New(trerr.Type, "ReadContainerHeader: %s is not a container kind", kind)
	}
	lenBytes := ContainerLenBytes(tag)
	lenOff := offset + 1
	if err := need(buf, lenOff, lenBytes); err != nil {
		return ContainerHeader{}, err
	}
	totalLen := wire.UintN(buf[lenOff:], lenBytes)
	payloadOff := lenOff + uint32(lenBytes)
	nodeEnd := uint64(offset) + totalLen
	if totalLen < uint64(1+lenBytes) || nodeEnd > uint64(len(buf)) {
		return ContainerHeader{}, trerr.New(trerr.Len, "node at %d declares length %d beyond buffer", offset, totalLen)
	}
	return ContainerHeader{
		Kind:       kind,
		IsLeaf:     ContainerIsLeaf(tag),
		IsNonRoot:  kind == value.Array && ContainerIsNonRoot(tag),
		PayloadOff: payloadOff,
		PayloadEnd: uint32(nodeEnd),
	}, nil
}

// WriteContainerNode appends a complete arr/map node (tag + length
// prefix + payload) to dst and returns the updated slice along with
// the offset the node was written at.
func WriteContainerNode(dst []byte, kind value.Kind, isLeaf, isNonRoot bool, payload []byte) ([]byte, uint32, error) {
	offset := uint32(len(dst))
	// The length prefix's own width affects the total length it
	// must encode, so solve for a fixed point: start from the
	// smallest width that could work and grow until stable.
	lenBytes := 1
	for {
		total := uint64(1 + lenBytes + len(payload))
		need, err := wire.BytesForUint(total, 4)
		if err != nil {
			return nil, 0, trerr.Wrap(trerr.Len, err, "node payload of %d bytes too large", len(payload))
		}
		if need <= lenBytes {
			tag := ContainerTag(kind, isLeaf, lenBytes, isNonRoot)
			dst = append(dst, tag)
			lenBuf := make([]byte, lenBytes)
			wire.PutUintN(lenBuf, total, lenBytes)
			dst = append(dst, lenBuf...)
			dst = append(dst, payload...)
			return dst, offset, nil
		}
		lenBytes = need
	}
}
