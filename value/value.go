package value

import (
	"fmt"
	"math"
	"sort"
)

// Kind discriminates the eight variants of a TRON value, in the wire
// order fixed by the low 3 bits of every tag byte.
type Kind uint8

const (
	Nil Kind = iota
	Bool
	Int64
	Float64
	Text
	Bin
	Array
	Map
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Bool:
		return "bit"
	case Int64:
		return "i64"
	case Float64:
		return "f64"
	case Text:
		return "txt"
	case Bin:
		return "bin"
	case Array:
		return "arr"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is the TRON logical value: a flat tagged union, not a class
// hierarchy.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string  // Text
	bin  []byte  // Bin
	arr  []Value // Array
	m    map[string]Value
}

func NilValue() Value          { return Value{kind: Nil} }
func BoolValue(v bool) Value   { return Value{kind: Bool, b: v} }
func IntValue(v int64) Value   { return Value{kind: Int64, i: v} }
func FloatValue(v float64) Value { return Value{kind: Float64, f: v} }
func TextValue(v string) Value { return Value{kind: Text, s: v} }

// BinValue copies data so the returned Value owns its bytes.
func BinValue(data []byte) Value {
	return Value{kind: Bin, bin: append([]byte(nil), data...)}
}

// ArrayValue copies the elements into a new slice (a shallow copy;
// elements are Values, already immutable by construction).
func ArrayValue(elems []Value) Value {
	return Value{kind: Array, arr: append([]Value(nil), elems...)}
}

// MapValue copies the map so the returned Value owns its entries.
func MapValue(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: Map, m: cp}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNil() bool   { return v.kind == Nil }
func (v Value) Bool() bool    { return v.b }
func (v Value) Int() int64    { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Text() string  { return v.s }
func (v Value) Bin() []byte   { return v.bin }
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Map:
		return len(v.m)
	default:
		return 0
	}
}
func (v Value) Elem(i int) Value { return v.arr[i] }
func (v Value) Elems() []Value   { return v.arr }

// MapEntry is one (key, value) pair of a Map value.
type MapEntry struct {
	Key   string
	Value Value
}

// Entries returns the Map's entries sorted by key. The logical model
// is unordered; sorting here only makes the encoder's output
// deterministic run-to-run, it carries no logical meaning.
func (v Value) Entries() []MapEntry {
	out := make([]MapEntry, 0, len(v.m))
	for k, val := range v.m {
		out = append(out, MapEntry{Key: k, Value: val})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Field looks up a Map's value by key. Present reports whether the
// key exists (needed to distinguish an absent key from a present nil).
func (v Value) Field(key string) (Value, bool) {
	val, ok := v.m[key]
	return val, ok
}

// IsFinite reports whether a Float64 value is encodable: non-finite
// floats (NaN, +/-Inf) are rejected at encode time.
func (v Value) IsFinite() bool {
	return !math.IsInf(v.f, 0) && !math.IsNaN(v.f)
}

// Equal implements recursive structural equality, with map comparison
// ignoring key order (the logical model is unordered).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Nil:
		return true
	case Bool:
		return a.b == b.b
	case Int64:
		return a.i == b.i
	case Float64:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case Text:
		return a.s == b.s
	case Bin:
		return string(a.bin) == string(b.bin)
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
