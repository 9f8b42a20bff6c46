package bridge

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/signadot/tron-format/tron/value"
)

const b64Prefix = "b64:"

// ToJSON converts v into a plain any tree suitable for encoding/json:
// nil, bool, int64, float64, string, []any, map[string]any. Bin values
// become "b64:"-prefixed strings.
func ToJSON(v value.Value) (any, error) {
	switch v.Kind() {
	case value.Nil:
		return nil, nil
	case value.Bool:
		return v.Bool(), nil
	case value.Int64:
		return v.Int(), nil
	case value.Float64:
		return v.Float(), nil
	case value.Text:
		return v.Text(), nil
	case value.Bin:
		return b64Prefix + base64.RawStdEncoding.EncodeToString(v.Bin()), nil
	case value.Array:
		elems := v.Elems()
		out := make([]any, len(elems))
		for i, e := range elems {
			conv, err := ToJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case value.Map:
		out := make(map[string]any, v.Len())
		for _, entry := range v.Entries() {
			conv, err := ToJSON(entry.Value)
			if err != nil {
				return nil, err
			}
			out[entry.Key] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("bridge: unhandled kind %s", v.Kind())
	}
}

// FromJSON converts a decoded JSON tree (as produced by a
// json.Decoder with UseNumber) into a Value. A string beginning with
// "b64:" whose remainder decodes as base64 becomes Bin; any other
// string stays Text.
func FromJSON(j any) (value.Value, error) {
	switch t := j.(type) {
	case nil:
		return value.NilValue(), nil
	case bool:
		return value.BoolValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return value.IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return value.Value{}, fmt.Errorf("bridge: number %q is neither int64 nor float64: %w", t, err)
		}
		return value.FloatValue(f), nil
	case float64:
		return value.FloatValue(t), nil
	case string:
		if raw, ok := decodeB64(t); ok {
			return value.BinValue(raw), nil
		}
		return value.TextValue(t), nil
	case []any:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			conv, err := FromJSON(e)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = conv
		}
		return value.ArrayValue(elems), nil
	case map[string]any:
		m := make(map[string]value.Value, len(t))
		for k, e := range t {
			conv, err := FromJSON(e)
			if err != nil {
				return value.Value{}, err
			}
			m[k] = conv
		}
		return value.MapValue(m), nil
	default:
		return value.Value{}, fmt.Errorf("bridge: unhandled JSON type %T", j)
	}
}

func decodeB64(s string) ([]byte, bool) {
	rest, ok := cutPrefix(s, b64Prefix)
	if !ok {
		return nil, false
	}
	raw, err := base64.RawStdEncoding.DecodeString(rest)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}

// MarshalJSON encodes v as JSON text.
func MarshalJSON(v value.Value) ([]byte, error) {
	j, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes JSON text into a Value, preserving integral
// numbers as Int64 rather than collapsing everything to Float64.
func UnmarshalJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var j any
	if err := dec.Decode(&j); err != nil {
		return value.Value{}, err
	}
	return FromJSON(j)
}
