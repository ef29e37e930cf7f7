package plisttree

import (
	"math"

	"github.com/YangQing-Lin/springtint/internal/errs"
)

// Scalar lists the types Get can return.
type Scalar interface {
	int64 | float64 | bool | string | []byte | Dict
}

// Lookup walks path through nested dictionaries. An empty path yields the
// tree itself.
func (d Dict) Lookup(path []string) (Value, bool) {
	cur := DictValue(d)
	for _, key := range path {
		m, ok := cur.Dict()
		if !ok {
			return Value{}, false
		}
		next, ok := m[key]
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Get reads path as T, returning def when a segment is absent or the value
// has another type. Reals are read from integers, and integers from reals
// that hold a whole number, matching how property list numbers bridge.
func Get[T Scalar](tree Dict, path []string, def T) T {
	v, ok := tree.Lookup(path)
	if !ok {
		return def
	}

	var out any
	switch any(def).(type) {
	case int64:
		n, ok := v.Int()
		if !ok {
			f, isFloat := v.Float()
			if !isFloat || f != math.Trunc(f) || math.IsInf(f, 0) {
				return def
			}
			n = int64(f)
		}
		out = n
	case float64:
		f, ok := v.Float()
		if !ok {
			n, isInt := v.Int()
			if !isInt {
				return def
			}
			f = float64(n)
		}
		out = f
	case bool:
		b, ok := v.Bool()
		if !ok {
			return def
		}
		out = b
	case string:
		s, ok := v.Str()
		if !ok {
			return def
		}
		out = s
	case []byte:
		b, ok := v.Bytes()
		if !ok {
			return def
		}
		out = b
	case Dict:
		m, ok := v.Dict()
		if !ok {
			return def
		}
		out = m
	default:
		return def
	}
	return out.(T)
}

// Set stores v at path, creating intermediate dictionaries. It fails only
// when an existing non-dictionary value sits on the path.
func Set(tree Dict, path []string, v Value) error {
	if tree == nil {
		return &errs.PathError{Path: path, Reason: "nil tree"}
	}
	if len(path) == 0 {
		return &errs.PathError{Reason: "empty path"}
	}

	cur := tree
	for i, key := range path[:len(path)-1] {
		child, ok := cur[key]
		if !ok {
			next := Dict{}
			cur[key] = DictValue(next)
			cur = next
			continue
		}
		next, ok := child.Dict()
		if !ok || next == nil {
			return &errs.PathError{
				Path:   append([]string{}, path[:i+1]...),
				Reason: "blocked by " + child.Type().String(),
			}
		}
		cur = next
	}
	cur[path[len(path)-1]] = v
	return nil
}

// Delete removes the value at path if present.
func Delete(tree Dict, path []string) {
	if len(path) == 0 {
		return
	}
	parent, ok := tree.Lookup(path[:len(path)-1])
	if !ok {
		return
	}
	if m, ok := parent.Dict(); ok {
		delete(m, path[len(path)-1])
	}
}
