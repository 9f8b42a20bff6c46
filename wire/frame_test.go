package wire

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPutUintNRoundTrip(t *testing.T) {
	cases := []struct {
		n    int
		v    uint64
		want []byte
	}{
		{1, 0xAB, []byte{0xAB}},
		{2, 0x1234, []byte{0x34, 0x12}},
		{4, 0xDEADBEEF, []byte{0xEF, 0xBE, 0xAD, 0xDE}},
	}
	for _, tt := range cases {
		b := make([]byte, tt.n)
		PutUintN(b, tt.v, tt.n)
		if diff := cmp.Diff(tt.want, b); diff != "" {
			t.Errorf("PutUintN(%d, n=%d) mismatch (-want +got):\n%s", tt.v, tt.n, diff)
		}
		if got := UintN(b, tt.n); got != tt.v {
			t.Errorf("UintN round trip = %#x, want %#x", got, tt.v)
		}
	}
}

func TestValidateMagic(t *testing.T) {
	if err := ValidateMagic([]byte("TRON....")); err != nil {
		t.Errorf("valid magic rejected: %v", err)
	}
	if err := ValidateMagic([]byte("XXXX")); err == nil {
		t.Error("bad magic accepted")
	}
	if err := ValidateMagic([]byte("TR")); err == nil {
		t.Error("short buffer accepted")
	}
}

func buildDoc(rootOffset, prevRootOffset uint32, body []byte) []byte {
	buf := append([]byte(nil), Magic[:]...)
	buf = append(buf, body...)
	footer := make([]byte, FooterSize)
	PutUint32(footer, rootOffset)
	PutUint32(footer[4:], prevRootOffset)
	return append(buf, footer...)
}

func TestFooterRoundTrip(t *testing.T) {
	body := []byte{byte(0) /* nil tag */}
	buf := buildDoc(uint32(len(Magic)), 0, body)
	root, prev, err := Footer(buf)
	if err != nil {
		t.Fatalf("Footer: %v", err)
	}
	if root != uint32(len(Magic)) || prev != 0 {
		t.Errorf("root=%d prev=%d, want root=%d prev=0", root, prev, len(Magic))
	}
}

func TestFooterRejectsRootInsideMagic(t *testing.T) {
	buf := buildDoc(1, 0, []byte{0})
	if _, _, err := Footer(buf); err == nil {
		t.Error("root offset inside magic accepted")
	}
}

func TestFooterRejectsRootPastBody(t *testing.T) {
	buf := buildDoc(999, 0, []byte{0})
	if _, _, err := Footer(buf); err == nil {
		t.Error("out-of-range root offset accepted")
	}
}

func TestFooterRejectsTooShort(t *testing.T) {
	if _, _, err := Footer([]byte("TRON")); err == nil {
		t.Error("buffer with no footer accepted")
	}
}

func TestDetectType(t *testing.T) {
	scalarBuf := buildDoc(uint32(len(Magic)), 0, []byte{0})
	kind, err := DetectType(scalarBuf)
	if err != nil || kind != "scalar" {
		t.Errorf("DetectType(nil scalar) = (%q, %v), want (scalar, nil)", kind, err)
	}

	// tag byte for an empty map leaf: kind=Map(7), leaf bit set, lenBytes=1
	mapTag := byte(7) | 0x08
	mapBuf := buildDoc(uint32(len(Magic)), 0, []byte{mapTag, 2})
	kind, err = DetectType(mapBuf)
	if err != nil || kind != "tree" {
		t.Errorf("DetectType(map) = (%q, %v), want (tree, nil)", kind, err)
	}
}
