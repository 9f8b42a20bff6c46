// Package value implements the TRON logical data model: the tagged
// union of nil, bit, i64, f64, txt, bin, arr and map, plus the
// Path/Segment types used to address into a document.
//
// Value is modeled as a single discriminated-union struct, not an
// interface with eight implementations, mirroring the flat tagged
// struct shape of go-tony/ir.Node (Type + a handful of typed payload
// fields) rather than chai's Value interface with eight concrete
// implementations.
package value
