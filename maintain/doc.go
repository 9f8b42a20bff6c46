// Package maintain implements vacuum and canonical: whole-document
// passes over a TRON buffer that each produce a fresh buffer,
// discarding history and/or non-canonical tree shape.
//
// Grounded on go-tony/system/logd/storage's compaction pass
// (storage/index/compaction.go): a DFS copy-forward over everything
// reachable from a root, memoizing old-to-new offsets as it goes.
package maintain
