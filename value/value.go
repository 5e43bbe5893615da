/**
 * Copyright (c) 2026, The Gqlassert Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Kind tags the variant stored in a Value.
type Kind uint8

// Enumeration of Kind
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	}
	return "unknown kind"
}

// ObjectField is a single named member of an object Value.
type ObjectField struct {
	Name  string
	Value Value
}

// A Value is an immutable JSON-like value: null, a boolean, a number, a string, a list of Value's
// or an object mapping field names to Value's. Object fields keep their insertion order (a GraphQL
// response preserves the selection order) but comparisons between objects are order-insensitive.
//
// The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	num    float64
	str    string
	list   []Value
	fields []ObjectField
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Boolean returns a Value holding b.
func Boolean(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a Value holding the given number.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Int returns a number Value holding i.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: float64(i)}
}

// String returns a Value holding s.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// ListOf returns a list Value with the given items.
func ListOf(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// ObjectOf returns an object Value with the given fields in the given order.
func ObjectOf(fields ...ObjectField) Value {
	return Value{kind: KindObject, fields: fields}
}

// FieldOf builds an ObjectField for use with ObjectOf.
func FieldOf(name string, v Value) ObjectField {
	return ObjectField{Name: name, Value: v}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true for the null Value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean payload. It is only meaningful for KindBool.
func (v Value) Bool() bool {
	return v.b
}

// Float returns the numeric payload. It is only meaningful for KindNumber.
func (v Value) Float() float64 {
	return v.num
}

// Text returns the string payload. It is only meaningful for KindString.
func (v Value) Text() string {
	return v.str
}

// Len returns the number of items in a list or the number of fields in an object, and 0 for
// anything else.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindObject:
		return len(v.fields)
	}
	return 0
}

// Items returns the items of a list Value. The returned slice must not be modified.
func (v Value) Items() []Value {
	return v.list
}

// Fields returns the fields of an object Value in stored order. The returned slice must not be
// modified.
func (v Value) Fields() []ObjectField {
	return v.fields
}

// Field looks up an object field by name.
func (v Value) Field(name string) (Value, bool) {
	for _, field := range v.fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return Value{}, false
}

// FromGo converts a Go value into a Value. It accepts nil, booleans, all integer and float widths,
// strings, json.Number, []interface{}, map[string]interface{} (fields sorted by key for
// determinism) and any nesting of these. Other slice and map-with-string-key types are accepted
// through a reflective fallback. The result holds no reference back to the input.
func FromGo(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Boolean(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Number(float64(v)), nil
	case uint8:
		return Number(float64(v)), nil
	case uint16:
		return Number(float64(v)), nil
	case uint32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	case float32:
		return Number(float64(v)), nil
	case float64:
		return Number(v), nil
	case string:
		return String(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("value: cannot convert json.Number %q: %s", v.String(), err)
		}
		return Number(f), nil
	case Value:
		return v, nil

	case []interface{}:
		items := make([]Value, len(v))
		for i, item := range v {
			converted, err := FromGo(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return ListOf(items...), nil

	case map[string]interface{}:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)

		fields := make([]ObjectField, len(names))
		for i, name := range names {
			converted, err := FromGo(v[name])
			if err != nil {
				return Value{}, err
			}
			fields[i] = FieldOf(name, converted)
		}
		return ObjectOf(fields...), nil
	}

	return fromGoReflect(v)
}

// fromGoReflect handles slice and map types other than []interface{} and map[string]interface{}.
func fromGoReflect(v interface{}) (Value, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromGo(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			converted, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return ListOf(items...), nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("value: cannot convert map with %s keys", rv.Type().Key())
		}
		if rv.IsNil() {
			return Null(), nil
		}
		names := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			names = append(names, iter.Key().String())
		}
		sort.Strings(names)

		fields := make([]ObjectField, len(names))
		for i, name := range names {
			converted, err := FromGo(rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return Value{}, err
			}
			fields[i] = FieldOf(name, converted)
		}
		return ObjectOf(fields...), nil
	}

	return Value{}, fmt.Errorf("value: cannot convert %T", v)
}

// MustFromGo is FromGo that panics on conversion failure. Intended for test fixtures.
func MustFromGo(v interface{}) Value {
	converted, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return converted
}

// ToGo converts the Value back into plain Go data: nil, bool, float64, string, []interface{} and
// map[string]interface{}. Object field order is lost.
func (v Value) ToGo() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindList:
		items := make([]interface{}, len(v.list))
		for i, item := range v.list {
			items[i] = item.ToGo()
		}
		return items
	case KindObject:
		fields := make(map[string]interface{}, len(v.fields))
		for _, field := range v.fields {
			fields[field.Name] = field.Value.ToGo()
		}
		return fields
	}
	return nil
}

// Equal reports structural equality between two Values. Numbers compare by numeric value so
// Int(1) equals Number(1.0). Lists compare element-wise in order. Objects compare by key set and
// per-key value regardless of field order; duplicate field names must match positionally among
// fields of the same name.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str

	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true

	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		// Match each field of a against the first not-yet-matched field of b with the same name.
		// This keeps key-order insensitivity while handling duplicate names deterministically.
		matched := make([]bool, len(b.fields))
		for _, field := range a.fields {
			found := false
			for i, other := range b.fields {
				if matched[i] || other.Name != field.Name {
					continue
				}
				if !Equal(field.Value, other.Value) {
					return false
				}
				matched[i] = true
				found = true
				break
			}
			if !found {
				return false
			}
		}
		return true
	}

	return false
}
