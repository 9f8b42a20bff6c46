package maintain_test

import (
	"testing"

	"github.com/signadot/tron-format/tron/encoding"
	"github.com/signadot/tron-format/tron/maintain"
	"github.com/signadot/tron-format/tron/update"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/view"
	"github.com/signadot/tron-format/tron/wire"
)

func buildHistory(t *testing.T) []byte {
	t.Helper()
	doc := value.MapValue(map[string]value.Value{"a": value.IntValue(1), "b": value.IntValue(2)})
	buf, err := encoding.Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path, _ := value.ParsePath("a")
	buf, err = update.SetPath(buf, path, value.IntValue(2))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	buf, err = update.SetPath(buf, path, value.IntValue(3))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	return buf
}

func TestVacuumPreservesLogicalContent(t *testing.T) {
	buf := buildHistory(t)
	vacuumed, err := maintain.Vacuum(buf)
	if err != nil {
		t.Fatalf("Vacuum: %v", err)
	}
	root, _, err := wire.Footer(vacuumed)
	if err != nil {
		t.Fatalf("Footer: %v", err)
	}
	got, err := view.Decode(vacuumed, root)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	a, ok := got.Field("a")
	if !ok || a.Int() != 3 {
		t.Fatalf("field a = (%v, %v), want 3", a, ok)
	}
	b, ok := got.Field("b")
	if !ok || b.Int() != 2 {
		t.Fatalf("field b = (%v, %v), want 2", b, ok)
	}
}

func TestVacuumZeroesPrevRootOffset(t *testing.T) {
	buf := buildHistory(t)
	vacuumed, err := maintain.Vacuum(buf)
	if err != nil {
		t.Fatalf("Vacuum: %v", err)
	}
	_, prev, err := wire.Footer(vacuumed)
	if err != nil {
		t.Fatalf("Footer: %v", err)
	}
	if prev != 0 {
		t.Errorf("prevRootOffset = %d, want 0", prev)
	}
}

func TestVacuumShrinksHistoryLadenBuffer(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{"a": value.IntValue(1)})
	buf, err := encoding.Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path, _ := value.ParsePath("a")
	for i := 0; i < 20; i++ {
		buf, err = update.SetPath(buf, path, value.IntValue(int64(i)))
		if err != nil {
			t.Fatalf("SetPath: %v", err)
		}
	}
	vacuumed, err := maintain.Vacuum(buf)
	if err != nil {
		t.Fatalf("Vacuum: %v", err)
	}
	if len(vacuumed) >= len(buf) {
		t.Errorf("vacuum of a %d-revision chain should shrink the buffer: got %d, was %d", 20, len(vacuumed), len(buf))
	}
}

func TestCanonicalMatchesEncodeDecode(t *testing.T) {
	buf := buildHistory(t)
	canon, err := maintain.Canonical(buf)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	root, _, err := wire.Footer(buf)
	if err != nil {
		t.Fatalf("Footer: %v", err)
	}
	decoded, err := view.Decode(buf, root)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	reencoded, err := encoding.Encode(decoded)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(canon) != string(reencoded) {
		t.Error("Canonical(buf) != Encode(Decode(buf))")
	}
}

func TestCanonicalIsIdempotent(t *testing.T) {
	buf := buildHistory(t)
	once, err := maintain.Canonical(buf)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	twice, err := maintain.Canonical(once)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if string(once) != string(twice) {
		t.Error("Canonical should be idempotent")
	}
}
