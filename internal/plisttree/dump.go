package plisttree

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dump renders tree as indented text with sorted keys, one field per line.
// The output is stable and suitable for diffing two trees.
func Dump(tree Dict) string {
	var b strings.Builder
	dumpDict(&b, tree, 0)
	return b.String()
}

func dumpDict(b *strings.Builder, d Dict, depth int) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dumpValue(b, k, d[k], depth)
	}
}

func dumpValue(b *strings.Builder, label string, v Value, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v.typ {
	case TypeDict:
		fmt.Fprintf(b, "%s%s:\n", indent, label)
		dumpDict(b, v.dict, depth+1)
	case TypeList:
		fmt.Fprintf(b, "%s%s: [%d]\n", indent, label, len(v.list))
		for i, item := range v.list {
			dumpValue(b, "- "+strconv.Itoa(i), item, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%s = %s\n", indent, label, scalarText(v))
	}
}

func scalarText(v Value) string {
	switch v.typ {
	case TypeInt:
		return "integer " + strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return "real " + strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeBool:
		return "bool " + strconv.FormatBool(v.b)
	case TypeString:
		return "string " + strconv.Quote(v.s)
	case TypeData:
		return fmt.Sprintf("data <%d bytes>", len(v.data))
	default:
		return v.typ.String()
	}
}
