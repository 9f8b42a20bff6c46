package update_test

import (
	"testing"

	"github.com/signadot/tron-format/tron/encoding"
	"github.com/signadot/tron-format/tron/nav"
	"github.com/signadot/tron-format/tron/update"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/view"
	"github.com/signadot/tron-format/tron/wire"
)

func mustEncode(t *testing.T, v value.Value) []byte {
	t.Helper()
	buf, err := encoding.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf
}

func decodeRoot(t *testing.T, buf []byte) value.Value {
	t.Helper()
	root, _, err := wire.Footer(buf)
	if err != nil {
		t.Fatalf("Footer: %v", err)
	}
	v, err := view.Decode(buf, root)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return v
}

func TestSetPathReplacesExistingField(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{"a": value.IntValue(1), "b": value.IntValue(2)})
	buf := mustEncode(t, doc)
	path, _ := value.ParsePath("a")
	newBuf, err := update.SetPath(buf, path, value.IntValue(99))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	got := decodeRoot(t, newBuf)
	v, ok := got.Field("a")
	if !ok || v.Int() != 99 {
		t.Fatalf("field a = (%v, %v), want 99", v, ok)
	}
	v, ok = got.Field("b")
	if !ok || v.Int() != 2 {
		t.Fatalf("unrelated field b changed: (%v, %v)", v, ok)
	}
}

func TestSetPathChainsPrevRootOffset(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{"a": value.IntValue(1)})
	buf := mustEncode(t, doc)
	oldRoot, _, err := wire.Footer(buf)
	if err != nil {
		t.Fatalf("Footer: %v", err)
	}
	path, _ := value.ParsePath("a")
	newBuf, err := update.SetPath(buf, path, value.IntValue(2))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	newRoot, prevRoot, err := wire.Footer(newBuf)
	if err != nil {
		t.Fatalf("Footer: %v", err)
	}
	if prevRoot != oldRoot {
		t.Errorf("prevRootOffset = %d, want old root %d", prevRoot, oldRoot)
	}
	if newRoot == oldRoot {
		t.Error("new root should differ from old root after a write")
	}
}

func TestSetPathInsertsNewKeyIntoLeaf(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{"a": value.IntValue(1)})
	buf := mustEncode(t, doc)
	path, _ := value.ParsePath("b")
	newBuf, err := update.SetPath(buf, path, value.TextValue("new"))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	got := decodeRoot(t, newBuf)
	if got.Len() != 2 {
		t.Fatalf("got %d fields, want 2", got.Len())
	}
	v, ok := got.Field("a")
	if !ok || v.Int() != 1 {
		t.Errorf("field a lost after insertion: (%v, %v)", v, ok)
	}
	v, ok = got.Field("b")
	if !ok || v.Text() != "new" {
		t.Errorf("field b = (%v, %v), want new", v, ok)
	}
}

func TestSetPathConvertsLeafToBranch(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{})
	buf := mustEncode(t, doc)
	// Insert enough distinct keys that a leaf must convert to a branch.
	for i := 0; i < 50; i++ {
		key := keyFor(i)
		path, _ := value.ParsePath(key)
		var err error
		buf, err = update.SetPath(buf, path, value.IntValue(int64(i)))
		if err != nil {
			t.Fatalf("SetPath(%s): %v", key, err)
		}
	}
	got := decodeRoot(t, buf)
	if got.Len() != 50 {
		t.Fatalf("got %d fields, want 50", got.Len())
	}
	for i := 0; i < 50; i++ {
		key := keyFor(i)
		v, ok := got.Field(key)
		if !ok || v.Int() != int64(i) {
			t.Errorf("field %s = (%v, %v), want %d", key, v, ok, i)
		}
	}
}

func TestSetPathCreatesNestedStructureFromScratch(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{})
	buf := mustEncode(t, doc)
	path, _ := value.ParsePath("a.b[2].c")
	newBuf, err := update.SetPath(buf, path, value.TextValue("deep"))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	got := decodeRoot(t, newBuf)
	a, ok := got.Field("a")
	if !ok || a.Kind() != value.Map {
		t.Fatalf("field a = (%v, %v)", a, ok)
	}
	b, ok := a.Field("b")
	if !ok || b.Kind() != value.Array {
		t.Fatalf("field a.b = (%v, %v)", b, ok)
	}
	if b.Len() != 3 {
		t.Fatalf("a.b length = %d, want 3", b.Len())
	}
	c, ok := b.Elem(2).Field("c")
	if !ok || c.Text() != "deep" {
		t.Fatalf("a.b[2].c = (%v, %v), want deep", c, ok)
	}
}

func TestSetPathExtendsArrayLength(t *testing.T) {
	doc := value.ArrayValue([]value.Value{value.IntValue(1), value.IntValue(2)})
	buf := mustEncode(t, doc)
	path, _ := value.ParsePath("[5]")
	newBuf, err := update.SetPath(buf, path, value.IntValue(99))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	got := decodeRoot(t, newBuf)
	if got.Len() != 6 {
		t.Fatalf("got length %d, want 6", got.Len())
	}
	if got.Elem(0).Int() != 1 || got.Elem(1).Int() != 2 {
		t.Error("existing elements changed")
	}
	if got.Elem(5).Int() != 99 {
		t.Errorf("elem 5 = %v, want 99", got.Elem(5))
	}
	if !got.Elem(2).IsNil() || !got.Elem(4).IsNil() {
		t.Error("gap slots should decode as nil")
	}
}

func TestSetPathGrowsShiftAcrossManyAppends(t *testing.T) {
	doc := value.ArrayValue(nil)
	buf := mustEncode(t, doc)
	for i := 0; i < 300; i++ {
		path, _ := value.ParsePath("[" + itoa(i) + "]")
		var err error
		buf, err = update.SetPath(buf, path, value.IntValue(int64(i)))
		if err != nil {
			t.Fatalf("SetPath[%d]: %v", i, err)
		}
	}
	got := decodeRoot(t, buf)
	if got.Len() != 300 {
		t.Fatalf("got length %d, want 300", got.Len())
	}
	for i := 0; i < 300; i++ {
		if got.Elem(i).Int() != int64(i) {
			t.Fatalf("elem %d = %v, want %d", i, got.Elem(i), i)
		}
	}
}

func TestSetPathReusesSiblingOffsets(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{
		"keep":   value.TextValue("unchanged"),
		"change": value.IntValue(1),
	})
	buf := mustEncode(t, doc)
	path, _ := value.ParsePath("change")
	newBuf, err := update.SetPath(buf, path, value.IntValue(2))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	// A sibling untouched by the write should still decode correctly
	// from the new buffer, and the new root should reach it at the
	// same offset it had in the old buffer.
	got := decodeRoot(t, newBuf)
	v, ok := got.Field("keep")
	if !ok || v.Text() != "unchanged" {
		t.Fatalf("field keep = (%v, %v)", v, ok)
	}
	keepPath, _ := value.ParsePath("keep")
	oldRoot, _, _ := wire.Footer(buf)
	newRoot, _, _ := wire.Footer(newBuf)
	oldOff, _, _ := nav.Resolve(buf, oldRoot, keepPath, nil)
	newOff, found, err := nav.Resolve(newBuf, newRoot, keepPath, nil)
	if err != nil || !found || newOff != oldOff {
		t.Errorf("field keep resolves to (%d, %v, %v) in new buffer, want old offset %d", newOff, found, err, oldOff)
	}
	if len(newBuf) >= len(buf)+len(buf) {
		t.Error("copy-on-write should append far less than a full re-encode")
	}
}

func TestSetPathPreservesSiblingFieldInNestedArrayElement(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{
		"f": value.ArrayValue([]value.Value{
			value.MapValue(map[string]value.Value{"x": value.IntValue(1), "y": value.IntValue(2)}),
		}),
	})
	buf := mustEncode(t, doc)
	path, _ := value.ParsePath("f[0].x")
	newBuf, err := update.SetPath(buf, path, value.IntValue(9))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	got := decodeRoot(t, newBuf)
	f, ok := got.Field("f")
	if !ok || f.Kind() != value.Array {
		t.Fatalf("field f = (%v, %v)", f, ok)
	}
	elem := f.Elem(0)
	x, ok := elem.Field("x")
	if !ok || x.Int() != 9 {
		t.Fatalf("f[0].x = (%v, %v), want 9", x, ok)
	}
	y, ok := elem.Field("y")
	if !ok || y.Int() != 2 {
		t.Fatalf("f[0].y = (%v, %v), want 2 (sibling field dropped)", y, ok)
	}
}

func TestSetPathPreservesSiblingFieldInNestedMapValue(t *testing.T) {
	doc := value.MapValue(map[string]value.Value{
		"outer": value.MapValue(map[string]value.Value{"x": value.IntValue(1), "y": value.IntValue(2)}),
	})
	buf := mustEncode(t, doc)
	path, _ := value.ParsePath("outer.x")
	newBuf, err := update.SetPath(buf, path, value.IntValue(9))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	got := decodeRoot(t, newBuf)
	outer, ok := got.Field("outer")
	if !ok || outer.Kind() != value.Map {
		t.Fatalf("field outer = (%v, %v)", outer, ok)
	}
	x, ok := outer.Field("x")
	if !ok || x.Int() != 9 {
		t.Fatalf("outer.x = (%v, %v), want 9", x, ok)
	}
	y, ok := outer.Field("y")
	if !ok || y.Int() != 2 {
		t.Fatalf("outer.y = (%v, %v), want 2 (sibling field dropped)", y, ok)
	}
}

func keyFor(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return string(letters[i%26]) + string(letters[(i/26)%26]) + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
