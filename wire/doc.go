// Package wire implements the little-endian byte primitives that every
// other TRON component builds on: fixed-width integer/float codecs,
// the variable-width length codec used for txt/bin and node headers,
// and popcount for HAMT/array bitmaps.
//
// Nothing in this package allocates beyond the slices callers hand it;
// it mirrors the low-level helpers in forestrie-go-merklelog/massifs
// (fixed-width, offset-addressed log entries) and chaisql-chai's
// types/encoding package (tag-byte-driven scalar codecs), adapted to
// TRON's little-endian, self-delimiting node layout.
package wire
