package plisttree

import (
	"fmt"
	"math"
	"strings"

	"howett.net/plist"

	"github.com/YangQing-Lin/springtint/internal/errs"
)

// Format is a property list serialization.
type Format int

const (
	Binary   = Format(plist.BinaryFormat)
	XML      = Format(plist.XMLFormat)
	OpenStep = Format(plist.OpenStepFormat)
)

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case XML:
		return "xml"
	case OpenStep:
		return "openstep"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Decode parses a serialized property list whose top level is a dictionary.
// It also reports which serialization the input used.
func Decode(data []byte) (Dict, Format, error) {
	if len(data) == 0 {
		return nil, 0, &errs.FormatError{Reason: "empty input"}
	}

	var raw interface{}
	format, err := plist.Unmarshal(data, &raw)
	if err != nil {
		return nil, 0, &errs.FormatError{Reason: "malformed property list", Err: err}
	}

	top, ok := raw.(map[string]interface{})
	if !ok {
		return nil, 0, &errs.FormatError{Reason: fmt.Sprintf("top level is %T, want dictionary", raw)}
	}

	tree, err := fromNativeDict(top, nil)
	if err != nil {
		return nil, 0, err
	}
	return tree, Format(format), nil
}

// Encode serializes tree in the given format.
func Encode(tree Dict, format Format) ([]byte, error) {
	if tree == nil {
		return nil, &errs.FormatError{Reason: "nil tree"}
	}
	out, err := plist.Marshal(toNativeDict(tree), int(format))
	if err != nil {
		return nil, &errs.FormatError{Reason: "encode " + format.String(), Err: err}
	}
	return out, nil
}

func fromNativeDict(m map[string]interface{}, path []string) (Dict, error) {
	out := make(Dict, len(m))
	for k, raw := range m {
		v, err := fromNative(raw, append(path, k))
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func fromNative(raw interface{}, path []string) (Value, error) {
	switch x := raw.(type) {
	case map[string]interface{}:
		d, err := fromNativeDict(x, path)
		if err != nil {
			return Value{}, err
		}
		return DictValue(d), nil
	case []interface{}:
		items := make([]Value, 0, len(x))
		for i, item := range x {
			v, err := fromNative(item, append(path, fmt.Sprintf("[%d]", i)))
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return List(items...), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case []byte:
		return Data(x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int64:
		return Int(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, unsupported(path, "integer out of range")
		}
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	default:
		return Value{}, unsupported(path, fmt.Sprintf("value of type %T", raw))
	}
}

func unsupported(path []string, what string) error {
	return &errs.FormatError{Reason: fmt.Sprintf("unsupported %s at %s", what, strings.Join(path, "."))}
}

func toNativeDict(d Dict) map[string]interface{} {
	out := make(map[string]interface{}, len(d))
	for k, v := range d {
		out[k] = toNative(v)
	}
	return out
}

func toNative(v Value) interface{} {
	switch v.typ {
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	case TypeBool:
		return v.b
	case TypeString:
		return v.s
	case TypeData:
		if v.data == nil {
			return []byte{}
		}
		return v.data
	case TypeList:
		items := make([]interface{}, len(v.list))
		for i, item := range v.list {
			items[i] = toNative(item)
		}
		return items
	case TypeDict:
		return toNativeDict(v.dict)
	default:
		return ""
	}
}
