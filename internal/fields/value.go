// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fields models the open-ended product attribute bag as a typed
// map from key to a tagged-union value, and infers a field schema from
// the values observed across products of a type.
package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Kind discriminates the variants a bag value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// Value is one attribute value: exactly one variant is populated,
// selected by Kind. Using a closed set of variants keeps the inference
// routine free of runtime type inspection.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Arr  []Value
	Obj  map[string]Value
}

// Bag is a product's open-ended attribute map, stored as JSONB.
type Bag map[string]Value

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// String wraps s as a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number wraps n as a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Boolean wraps b as a boolean value.
func Boolean(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Array wraps elems as an array value.
func Array(elems ...Value) Value { return Value{Kind: KindArray, Arr: elems} }

// Object wraps m as an object value.
func Object(m map[string]Value) Value { return Value{Kind: KindObject, Obj: m} }

// MarshalJSON renders the populated variant as plain JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindArray:
		if v.Arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Arr)
	case KindObject:
		if v.Obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Obj)
	}
	return nil, fmt.Errorf("fields: unknown kind %d", v.Kind)
}

// UnmarshalJSON decodes arbitrary JSON into the matching variant.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("fields: empty value")
	}

	switch data[0] {
	case 'n':
		*v = Value{Kind: KindNull}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{Kind: KindString, Str: s}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Value{Kind: KindBool, Bool: b}
		return nil
	case '[':
		var arr []Value
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if arr == nil {
			arr = []Value{}
		}
		*v = Value{Kind: KindArray, Arr: arr}
		return nil
	case '{':
		var obj map[string]Value
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj == nil {
			obj = map[string]Value{}
		}
		*v = Value{Kind: KindObject, Obj: obj}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{Kind: KindNumber, Num: n}
		return nil
	}
}

// canonical returns a stable JSON rendering used for example
// de-duplication. Object keys are sorted by encoding/json already; this
// exists so two equal values always compare equal as strings.
func (v Value) canonical() string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// sortedKeys returns the keys of a bag in lexical order.
func sortedKeys(b Bag) []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
