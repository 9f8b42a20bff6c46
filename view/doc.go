// Package view implements lazy navigation of a TRON buffer, with
// writes delegated to the copy-on-write updater. A View never decodes
// more of the buffer than a lookup's path touches, and memoizes
// sub-views, key hashes, and resolved container offsets so repeated
// navigation of the same path is cheap.
//
// Grounded on go-tony/system/logd/storage.Storage's read-path caching
// (a slog.Logger threaded through, nil meaning "use the default
// logger") and on the HAMT rank-navigation described for go-tony's
// persistent index nodes.
package view
