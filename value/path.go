package value

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a map field (string) or an
// array index (non-negative int). Exactly one of IsField()/IsIndex()
// is true.
type Segment struct {
	field   string
	index   int
	isField bool
}

// Field builds a map-field segment.
func Field(name string) Segment { return Segment{field: name, isField: true} }

// Index builds an array-index segment.
func Index(i int) Segment { return Segment{index: i} }

func (s Segment) IsField() bool { return s.isField }
func (s Segment) IsIndex() bool { return !s.isField }
func (s Segment) FieldName() string { return s.field }
func (s Segment) IndexValue() int   { return s.index }

func (s Segment) String() string {
	if s.isField {
		return s.field
	}
	return "[" + strconv.Itoa(s.index) + "]"
}

// Path is an ordered sequence of Segments addressing into a document.
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.isField {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.field)
		} else {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// ParsePath parses the convenience dotted/bracketed syntax used in
// tests and docs ("a.b[0].c"), grounded on the simpler subset of
// go-tony/ir/kpath's grammar (fields, dense indices; no wildcards —
// TRON paths are always concrete lookups, never queries).
func ParsePath(s string) (Path, error) {
	var (
		path Path
		i    int
		n    = len(s)
	)
	for i < n {
		switch {
		case s[i] == '.':
			i++
		case s[i] == '[':
			j := i + 1
			for j < n && s[j] != ']' {
				j++
			}
			if j >= n {
				return nil, &pathError{s, "unterminated ["}
			}
			idx, err := strconv.Atoi(s[i+1 : j])
			if err != nil {
				return nil, &pathError{s, "bad index " + s[i+1:j]}
			}
			path = append(path, Index(idx))
			i = j + 1
		default:
			j := i
			for j < n && s[j] != '.' && s[j] != '[' {
				j++
			}
			path = append(path, Field(s[i:j]))
			i = j
		}
	}
	return path, nil
}

type pathError struct {
	path string
	msg  string
}

func (e *pathError) Error() string { return "value: bad path " + strconv.Quote(e.path) + ": " + e.msg }
