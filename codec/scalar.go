package codec

import (
	"unicode/utf8"

	"github.com/signadot/tron-format/tron/trerr"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/wire"
)

// WriteScalar appends the wire encoding of a non-container value to
// dst and returns the updated slice. v must not be Array or Map.
func WriteScalar(dst []byte, v value.Value) ([]byte, error) {
	switch v.Kind() {
	case value.Nil:
		return append(dst, byte(value.Nil)), nil
	case value.Bool:
		return append(dst, BoolTag(v.Bool())), nil
	case value.Int64:
		b := make([]byte, 9)
		b[0] = byte(value.Int64)
		wire.PutInt64(b[1:], v.Int())
		return append(dst, b...), nil
	case value.Float64:
		if !v.IsFinite() {
			return nil, trerr.New(trerr.Num, "f64 value is not finite")
		}
		b := make([]byte, 9)
		b[0] = byte(value.Float64)
		wire.PutFloat64(b[1:], v.Float())
		return append(dst, b...), nil
	case value.Text:
		s := v.Text()
		if !utf8.ValidString(s) {
			return nil, trerr.New(trerr.Type, "txt value is not valid UTF-8")
		}
		return writeLenPrefixed(dst, value.Text, []byte(s))
	case value.Bin:
		return writeLenPrefixed(dst, value.Bin, v.Bin())
	default:
		return nil, trerr.New(trerr.Type, "WriteScalar: %s is a container kind", v.Kind())
	}
}

func writeLenPrefixed(dst []byte, kind value.Kind, raw []byte) ([]byte, error) {
	n := len(raw)
	if n <= 15 {
		dst = append(dst, TextBinTag(kind, false, n))
		return append(dst, raw...), nil
	}
	nb, err := wire.BytesForUint(uint64(n), 8)
	if err != nil {
		return nil, err
	}
	dst = append(dst, TextBinTag(kind, true, nb))
	lenBuf := make([]byte, nb)
	wire.PutUintN(lenBuf, uint64(n), nb)
	dst = append(dst, lenBuf...)
	return append(dst, raw...), nil
}

// ReadScalar decodes the non-container value node starting at offset
// in buf, returning the value and the offset of the byte immediately
// following the node.
func ReadScalar(buf []byte, offset uint32) (value.Value, uint32, error) {
	if int(offset) >= len(buf) {
		return value.Value{}, 0, trerr.New(trerr.Short, "offset %d beyond buffer of length %d", offset, len(buf))
	}
	tag := buf[offset]
	kind := Kind(tag)
	pos := offset + 1
	switch kind {
	case value.Nil:
		return value.NilValue(), pos, nil
	case value.Bool:
		return value.BoolValue(BoolValue(tag)), pos, nil
	case value.Int64:
		if err := need(buf, pos, 8); err != nil {
			return value.Value{}, 0, err
		}
		v := wire.Int64(buf[pos:])
		return value.IntValue(v), pos + 8, nil
	case value.Float64:
		if err := need(buf, pos, 8); err != nil {
			return value.Value{}, 0, err
		}
		f := wire.Float64(buf[pos:])
		return value.FloatValue(f), pos + 8, nil
	case value.Text, value.Bin:
		raw, next, err := readLenPrefixed(buf, tag, pos)
		if err != nil {
			return value.Value{}, 0, err
		}
		if kind == value.Text {
			if !utf8.Valid(raw) {
				return value.Value{}, 0, trerr.New(trerr.Type, "txt payload is not valid UTF-8")
			}
			return value.TextValue(string(raw)), next, nil
		}
		return value.BinValue(raw), next, nil
	default:
		return value.Value{}, 0, trerr.New(trerr.Type, "ReadScalar: %s is a container kind", kind)
	}
}

func readLenPrefixed(buf []byte, tag byte, pos uint32) ([]byte, uint32, error) {
	nibble := TextBinNibble(tag)
	if !TextBinExtended(tag) {
		n := nibble
		if err := need(buf, pos, n); err != nil {
			return nil, 0, err
		}
		return buf[pos : pos+uint32(n)], pos + uint32(n), nil
	}
	nb := nibble
	if nb < 1 || nb > 8 {
		return nil, 0, trerr.New(trerr.Len, "invalid extended length byte-count %d", nb)
	}
	if err := need(buf, pos, nb); err != nil {
		return nil, 0, err
	}
	n := wire.UintN(buf[pos:], nb)
	pos += uint32(nb)
	if err := need64(buf, pos, n); err != nil {
		return nil, 0, err
	}
	return buf[pos : pos+uint32(n)], pos + uint32(n), nil
}

func need(buf []byte, pos uint32, n int) error {
	if n < 0 || int(pos)+n > len(buf) {
		return trerr.New(trerr.Short, "need %d bytes at offset %d, buffer has %d", n, pos, len(buf))
	}
	return nil
}

func need64(buf []byte, pos uint32, n uint64) error {
	if uint64(pos)+n > uint64(len(buf)) {
		return trerr.New(trerr.Short, "need %d bytes at offset %d, buffer has %d", n, pos, len(buf))
	}
	return nil
}
