// Package bridge converts between TRON's Value and encoding/json's
// any-typed tree, for interop with tooling that only speaks JSON. JSON
// has no binary type, so Bin values round-trip through a "b64:"-
// prefixed string convention, grounded on the b64enc op's use of
// base64.RawStdEncoding (tony/eval/base64enc.go).
package bridge
