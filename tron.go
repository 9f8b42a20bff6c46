// Package tron implements the TRON self-describing binary container
// format: a flat tagged-value model stored as a byte-offset addressed
// graph of scalar and container (HAMT map / radix-16 array) nodes,
// supporting lazy random-access reads, copy-on-write mutation, and
// whole-document maintenance passes (vacuum, canonical).
//
// Grounded on go-tony's top-level tool.go/patch.go: a small facade
// re-exporting the package's real work from its internal packages.
package tron

import (
	"log/slog"

	"github.com/signadot/tron-format/tron/encoding"
	"github.com/signadot/tron-format/tron/maintain"
	"github.com/signadot/tron-format/tron/update"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/view"
	"github.com/signadot/tron-format/tron/wire"
)

// Value is the logical TRON value: a flat tagged union over nil, bool,
// int64, float64, text, binary, array, and map.
type Value = value.Value

// Kind discriminates Value's eight variants.
type Kind = value.Kind

// Path addresses into a document: an ordered sequence of map-field and
// array-index segments.
type Path = value.Path

// ParsePath parses the dotted/bracketed convenience syntax ("a.b[0]").
func ParsePath(s string) (Path, error) { return value.ParsePath(s) }

// Field builds a map-field path segment.
func Field(name string) value.Segment { return value.Field(name) }

// Index builds an array-index path segment.
func Index(i int) value.Segment { return value.Index(i) }

// NilValue, BoolValue, IntValue, FloatValue, TextValue, BinValue,
// ArrayValue and MapValue construct Values of the corresponding kind.
var (
	NilValue   = value.NilValue
	BoolValue  = value.BoolValue
	IntValue   = value.IntValue
	FloatValue = value.FloatValue
	TextValue  = value.TextValue
	BinValue   = value.BinValue
	ArrayValue = value.ArrayValue
	MapValue   = value.MapValue
)

// Equal reports whether a and b are structurally equal; map
// comparison ignores key order.
func Equal(a, b Value) bool { return value.Equal(a, b) }

// Encode serializes v into a complete TRON document: magic, node
// graph, and a footer whose prevRootOffset is zero.
func Encode(v Value) ([]byte, error) { return encoding.Encode(v) }

// DetectType reports "scalar" or "tree" depending on whether buf's
// root node is a container, without decoding the document.
func DetectType(buf []byte) (string, error) { return wire.DetectType(buf) }

// SetPath returns a new document with value installed at path, reusing
// every sibling subtree off path by offset and chaining the new
// footer's prevRootOffset back to buf's old root.
func SetPath(buf []byte, path Path, v Value) ([]byte, error) {
	return update.SetPath(buf, path, v)
}

// Vacuum discards buf's mutation history, keeping only the nodes
// reachable from the current root, compacted with no gaps.
func Vacuum(buf []byte) ([]byte, error) { return maintain.Vacuum(buf) }

// Canonical rewrites buf into the reference encoder's canonical shape:
// documents with the same logical content always produce identical
// Canonical output regardless of mutation history.
func Canonical(buf []byte) ([]byte, error) { return maintain.Canonical(buf) }

// View is a read/write path over a TRON buffer that touches only the
// nodes a lookup's path crosses.
type View = view.View

// ViewOption configures a View; see WithViewLogger.
type ViewOption = view.Option

// WithViewLogger attaches a logger for a View's cache-invalidation and
// navigation diagnostics.
func WithViewLogger(logger *slog.Logger) ViewOption { return view.WithLogger(logger) }

// NewView opens a View over buf's current root.
func NewView(buf []byte, opts ...ViewOption) (*View, error) { return view.New(buf, opts...) }
