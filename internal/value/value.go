// Package value is the closed set of shapes the traversal engine walks:
// text, ordered sequences, string keyed mappings and opaque scalars.
//
// Mappings and sequences are pointers so their identity can be tracked;
// a mapping may contain itself.
package value

import (
	"fmt"
	"reflect"
	"sort"
)

// Value is one of Text, Scalar, *Sequence or *Mapping.
type Value interface {
	isValue()
}

// Text is a string that may contain marker spans.
type Text string

// Scalar is any other leaf (numbers, booleans, nil, functions, handles).
// The engine passes scalars through untouched.
type Scalar struct {
	V any
}

// Sequence is an ordered list of values.
type Sequence struct {
	Items []Value
}

// Mapping is a string keyed collection that remembers insertion order.
type Mapping struct {
	keys   []string
	values map[string]Value
}

func (Text) isValue()      {}
func (Scalar) isValue()    {}
func (*Sequence) isValue() {}
func (*Mapping) isValue()  {}

// NewSequence returns a sequence holding items.
func NewSequence(items ...Value) *Sequence {
	return &Sequence{Items: items}
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Len returns the number of keys.
func (m *Mapping) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores v under key, appending key if it is new.
func (m *Mapping) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// FromAny converts a decoded document (the shapes produced by encoding/json,
// yaml.v3, toml and cbor) into a Value. Maps are keyed by identity so a map
// that contains itself becomes a Mapping that contains itself.
func FromAny(x any) Value {
	c := converter{seen: make(map[any]Value)}
	return c.from(reflect.ValueOf(x))
}

type converter struct {
	seen map[any]Value
}

// sliceKey identifies a slice by its backing array and length.
type sliceKey struct {
	ptr uintptr
	n   int
}

// mapKey identifies a map by its header.
type mapKey uintptr

func (c *converter) from(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Scalar{}
	}
	if v, ok := rv.Interface().(Value); ok {
		return v
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return Scalar{V: rv.Interface()}
		}
		if rv.Kind() == reflect.Interface {
			return c.from(rv.Elem())
		}
		return Scalar{V: rv.Interface()}

	case reflect.String:
		return Text(rv.String())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar{V: rv.Interface()}
		}
		if rv.Kind() == reflect.Slice {
			if rv.IsNil() {
				return Scalar{V: rv.Interface()}
			}
			id := sliceKey{rv.Pointer(), rv.Len()}
			if seen, ok := c.seen[id]; ok && id.n > 0 {
				return seen
			}
			seq := &Sequence{Items: make([]Value, rv.Len())}
			if id.n > 0 {
				c.seen[id] = seq
			}
			for i := range seq.Items {
				seq.Items[i] = c.from(rv.Index(i))
			}
			return seq
		}
		seq := &Sequence{Items: make([]Value, rv.Len())}
		for i := range seq.Items {
			seq.Items[i] = c.from(rv.Index(i))
		}
		return seq

	case reflect.Map:
		if rv.IsNil() {
			return Scalar{V: rv.Interface()}
		}
		id := mapKey(rv.Pointer())
		if seen, ok := c.seen[id]; ok {
			return seen
		}
		m := NewMapping()
		c.seen[id] = m

		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := keyString(iter.Key())
			keys = append(keys, k)
			byKey[k] = iter.Value()
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, c.from(byKey[k]))
		}
		return m

	default:
		return Scalar{V: rv.Interface()}
	}
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// ToAny converts a Value back into plain Go values: string, []any,
// map[string]any and the scalar payloads. Shared containers stay shared.
func ToAny(v Value) any {
	seen := make(map[any]any)
	return toAny(v, seen)
}

func toAny(v Value, seen map[any]any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Text:
		return string(t)
	case Scalar:
		return t.V
	case *Sequence:
		if out, ok := seen[t]; ok {
			return out
		}
		out := make([]any, len(t.Items))
		seen[t] = out
		for i, item := range t.Items {
			out[i] = toAny(item, seen)
		}
		return out
	case *Mapping:
		if out, ok := seen[t]; ok {
			return out
		}
		out := make(map[string]any, t.Len())
		seen[t] = out
		for _, k := range t.keys {
			out[k] = toAny(t.values[k], seen)
		}
		return out
	default:
		panic(fmt.Sprintf("value: unknown variant %T", v))
	}
}
