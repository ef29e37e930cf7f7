// Package plisttree decodes property lists into a typed tree and encodes the
// tree back. Values are a closed set of variants; path accessors fall back to
// caller defaults instead of failing on absent or mistyped fields.
package plisttree

import (
	"bytes"
	"fmt"
)

// Type identifies the variant held by a Value.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeString
	TypeData
	TypeList
	TypeDict
)

var typeNames = [...]string{"invalid", "integer", "real", "bool", "string", "data", "array", "dict"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Dict is a decoded dictionary. Key order is not significant.
type Dict map[string]Value

// Value is one node of a decoded property list.
type Value struct {
	typ  Type
	i    int64
	f    float64
	b    bool
	s    string
	data []byte
	list []Value
	dict Dict
}

func Int(v int64) Value      { return Value{typ: TypeInt, i: v} }
func Float(v float64) Value  { return Value{typ: TypeFloat, f: v} }
func Bool(v bool) Value      { return Value{typ: TypeBool, b: v} }
func String(v string) Value  { return Value{typ: TypeString, s: v} }
func List(v ...Value) Value  { return Value{typ: TypeList, list: v} }
func DictValue(d Dict) Value { return Value{typ: TypeDict, dict: d} }

// Data wraps a byte blob. A nil slice is stored as an empty blob.
func Data(v []byte) Value {
	if v == nil {
		v = []byte{}
	}
	return Value{typ: TypeData, data: v}
}

func (v Value) Type() Type { return v.typ }

func (v Value) Int() (int64, bool) { return v.i, v.typ == TypeInt }

func (v Value) Float() (float64, bool) { return v.f, v.typ == TypeFloat }

func (v Value) Bool() (bool, bool) { return v.b, v.typ == TypeBool }

func (v Value) Str() (string, bool) { return v.s, v.typ == TypeString }

func (v Value) Bytes() ([]byte, bool) { return v.data, v.typ == TypeData }

func (v Value) Items() ([]Value, bool) { return v.list, v.typ == TypeList }

func (v Value) Dict() (Dict, bool) { return v.dict, v.typ == TypeDict }

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.typ {
	case TypeData:
		return Data(append([]byte{}, v.data...))
	case TypeList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return Value{typ: TypeList, list: items}
	case TypeDict:
		return DictValue(v.dict.Clone())
	default:
		return v
	}
}

// Equal reports whether v and o hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeInt:
		return v.i == o.i
	case TypeFloat:
		return v.f == o.f
	case TypeBool:
		return v.b == o.b
	case TypeString:
		return v.s == o.s
	case TypeData:
		return bytes.Equal(v.data, o.data)
	case TypeList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case TypeDict:
		return v.dict.Equal(o.dict)
	default:
		return true
	}
}

// Clone returns a deep copy of d.
func (d Dict) Clone() Dict {
	if d == nil {
		return nil
	}
	out := make(Dict, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// Equal compares two dictionaries by value.
func (d Dict) Equal(o Dict) bool {
	if len(d) != len(o) {
		return false
	}
	for k, v := range d {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
