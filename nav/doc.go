// Package nav implements the read-only path-resolution walk used by
// the lazy view: given a buffer, a starting node offset, and a path,
// follow map/array segments touching only the nodes the path passes
// through. The copy-on-write updater does not use this package; it
// descends the nodes itself with the same codec slot/rank helpers.
//
// Grounded on the HAMT rank-navigation and radix-16 slot arithmetic
// described for go-tony's persistent index nodes, kept apart from
// view so that it has no dependency on the updater.
package nav
