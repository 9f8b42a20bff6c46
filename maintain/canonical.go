package maintain

import (
	"github.com/signadot/tron-format/tron/encoding"
	"github.com/signadot/tron-format/tron/view"
	"github.com/signadot/tron-format/tron/wire"
)

// Canonical rewrites buf into the reference encoder's canonical shape:
// a full decode followed by a fresh Encode. Two documents with the
// same logical content always produce byte-identical output from
// Canonical, regardless of what mutation history produced either one.
func Canonical(buf []byte) ([]byte, error) {
	rootOffset, _, err := wire.Footer(buf)
	if err != nil {
		return nil, err
	}
	v, err := view.Decode(buf, rootOffset)
	if err != nil {
		return nil, err
	}
	return encoding.Encode(v)
}
