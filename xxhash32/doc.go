// Package xxhash32 implements the XXH32 hash (seed-parameterized,
// 32-bit output) used to place map keys into TRON's HAMT.
//
// Every implementation reading a given buffer must agree bit-for-bit
// on key placement. No library in the retrieved corpus implements
// XXH32 itself: arloliu/mebo and chaisql-chai both pull in
// cespare/xxhash/v2, which is XXH64, a different algorithm with a
// different bit layout and different output for the same input;
// github.com/zeebo/xxh3 is XXH3, newer still and also bit-incompatible.
// Using either would silently break every HAMT placement decision. The
// algorithm is a small, fully public, stable specification (unchanged
// since 2012), so it is implemented directly here rather than adopting
// a wrong-algorithm dependency — see DESIGN.md for the full
// justification.
package xxhash32
