package value

import (
	"reflect"
	"testing"
)

func TestFromAnyShapes(t *testing.T) {
	doc := map[string]any{
		"b":    []any{"x", 1.5, true, nil},
		"a":    "text",
		"meta": map[any]any{"k": "v", 2: "two"},
	}

	v := FromAny(doc)
	m, ok := v.(*Mapping)
	if !ok {
		t.Fatalf("FromAny(map) = %T, want *Mapping", v)
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "meta"}) {
		t.Errorf("Keys() = %v, want sorted keys", got)
	}

	a, _ := m.Get("a")
	if a != Text("text") {
		t.Errorf("a = %#v, want Text", a)
	}

	b, _ := m.Get("b")
	seq, ok := b.(*Sequence)
	if !ok || len(seq.Items) != 4 {
		t.Fatalf("b = %#v, want 4 item sequence", b)
	}
	if seq.Items[1] != (Scalar{V: 1.5}) || seq.Items[2] != (Scalar{V: true}) {
		t.Errorf("scalars not preserved: %#v", seq.Items)
	}

	meta, _ := m.Get("meta")
	mm, ok := meta.(*Mapping)
	if !ok {
		t.Fatalf("meta = %T, want *Mapping", meta)
	}
	if two, _ := mm.Get("2"); two != Text("two") {
		t.Errorf("non string key not converted, got %#v", two)
	}
}

func TestRoundTripAny(t *testing.T) {
	doc := map[string]any{
		"list":   []any{"a", map[string]any{"n": 1}},
		"string": "s",
		"num":    42,
	}
	got := ToAny(FromAny(doc))
	want := map[string]any{
		"list":   []any{"a", map[string]any{"n": 1}},
		"string": "s",
		"num":    42,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToAny(FromAny(doc)) = %#v, want %#v", got, want)
	}
}

func TestFromAnySelfReference(t *testing.T) {
	doc := map[string]any{"name": "root"}
	doc["self"] = doc

	m := FromAny(doc).(*Mapping)
	self, _ := m.Get("self")
	if self != Value(m) {
		t.Error("self reference should map to the same *Mapping")
	}

	back := ToAny(m).(map[string]any)
	inner := back["self"].(map[string]any)
	if inner["name"] != "root" {
		t.Errorf("cycle not preserved by ToAny: %#v", inner["name"])
	}
}

func TestFromAnySelfReferencingSlice(t *testing.T) {
	s := make([]any, 2)
	s[0] = "x"
	s[1] = s

	seq := FromAny(s).(*Sequence)
	if seq.Items[1] != Value(seq) {
		t.Error("self referencing slice should map to the same *Sequence")
	}
}

func TestFromAnyKeepsValues(t *testing.T) {
	m := NewMapping()
	if FromAny(m) != Value(m) {
		t.Error("FromAny should return an existing Value unchanged")
	}
	if FromAny(nil) != (Scalar{}) {
		t.Error("nil should become the zero Scalar")
	}
	if _, ok := FromAny([]byte("raw")).(Scalar); !ok {
		t.Error("byte slices are opaque scalars")
	}
}

func TestMappingSetKeepsOrder(t *testing.T) {
	m := NewMapping()
	m.Set("z", Text("1"))
	m.Set("a", Text("2"))
	m.Set("z", Text("3"))

	if got := m.Keys(); !reflect.DeepEqual(got, []string{"z", "a"}) {
		t.Errorf("Keys() = %v", got)
	}
	if v, _ := m.Get("z"); v != Text("3") {
		t.Errorf("z = %#v", v)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d", m.Len())
	}

	var zero Mapping
	zero.Set("k", Text("v"))
	if zero.Len() != 1 {
		t.Error("zero Mapping should be usable")
	}
}
