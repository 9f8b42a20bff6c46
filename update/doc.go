// Package update implements copy-on-write mutation. SetPath takes a
// buffer, a path, and a replacement value, and returns
// a new buffer representing the same logical document with value
// installed at path; only the nodes from the root down to the updated
// leaf are freshly appended, every sibling subtree is referenced by
// its existing offset, and the new footer's prevRootOffset chains back
// to the old root.
//
// Grounded on mergeop's insert/dive patch application
// (mergeop/insert.go, mergeop/dive.go): a path-driven rebuild that
// reuses everything off the path and only re-synthesizes the spine.
package update
