package tron

import "testing"

func TestFacadeEncodeSetPathView(t *testing.T) {
	doc := MapValue(map[string]Value{"a": IntValue(1)})
	buf, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	kind, err := DetectType(buf)
	if err != nil || kind != "tree" {
		t.Fatalf("DetectType = (%q, %v), want (tree, nil)", kind, err)
	}

	path, err := ParsePath("b")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	buf, err = SetPath(buf, path, TextValue("new"))
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}

	v, err := NewView(buf)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	got, found, err := v.Read(path)
	if err != nil || !found || got.Text() != "new" {
		t.Fatalf("Read(b) = (%v, %v, %v)", got, found, err)
	}

	vacuumed, err := Vacuum(buf)
	if err != nil {
		t.Fatalf("Vacuum: %v", err)
	}
	canon, err := Canonical(vacuumed)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if len(canon) == 0 {
		t.Fatal("Canonical produced an empty buffer")
	}
}
