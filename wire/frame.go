package wire

import (
	"github.com/signadot/tron-format/tron/trerr"
	"github.com/signadot/tron-format/tron/value"
)

// ValidateMagic checks that buf begins with the TRON marker.
func ValidateMagic(buf []byte) error {
	if len(buf) < len(Magic) || buf[0] != Magic[0] || buf[1] != Magic[1] || buf[2] != Magic[2] || buf[3] != Magic[3] {
		return trerr.New(trerr.Magic, "missing or malformed TRON magic")
	}
	return nil
}

// Footer validates the magic and fixed trailer and returns the root
// and previous-root offsets. The document body is buf[len(Magic):
// len(buf)-FooterSize].
func Footer(buf []byte) (rootOffset, prevRootOffset uint32, err error) {
	if err := ValidateMagic(buf); err != nil {
		return 0, 0, err
	}
	if len(buf) < len(Magic)+FooterSize {
		return 0, 0, trerr.New(trerr.Short, "buffer of length %d too short for header+footer", len(buf))
	}
	footerOff := len(buf) - FooterSize
	rootOffset = Uint32(buf[footerOff:])
	prevRootOffset = Uint32(buf[footerOff+4:])
	bodyEnd := uint32(footerOff)
	if rootOffset < uint32(len(Magic)) || rootOffset >= bodyEnd {
		return 0, 0, trerr.New(trerr.Off, "root offset %d outside document body [%d,%d)", rootOffset, len(Magic), bodyEnd)
	}
	return rootOffset, prevRootOffset, nil
}

// DetectType returns "scalar" or "tree" based on the value tag at the
// document's root offset.
func DetectType(buf []byte) (string, error) {
	rootOffset, _, err := Footer(buf)
	if err != nil {
		return "", err
	}
	switch value.Kind(buf[rootOffset] & 0x07) {
	case value.Array, value.Map:
		return "tree", nil
	default:
		return "scalar", nil
	}
}
