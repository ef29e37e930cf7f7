// Package material reads and writes the tint and blur fields of material
// recipes and produces size-matched replacement files.
package material

import (
	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/plisttree"
)

// DefaultBlur is the blur radius reported when a recipe carries none.
const DefaultBlur Blur = 30

// StockGray is the tint reported when no customization exists.
var StockGray = Tint{Red: 0.5, Green: 0.5, Blue: 0.5, Alpha: 1}

var (
	tintColorPath  = []string{"baseMaterial", "tinting", "tintColor"}
	tintAlphaPath  = []string{"baseMaterial", "tinting", "tintAlpha"}
	blurRadiusPath = []string{"baseMaterial", "materialFiltering", "blurRadius"}
)

// Tint is a user-facing tint color. Alpha is the user alpha, not the stored
// tintAlpha field.
type Tint struct {
	Red   float64
	Green float64
	Blue  float64
	Alpha float64
}

// Blur is a blur radius stored verbatim as an integer.
type Blur int

// Clamp limits every component to [0,1].
func (t Tint) Clamp() Tint {
	return Tint{
		Red:   clamp01(t.Red),
		Green: clamp01(t.Green),
		Blue:  clamp01(t.Blue),
		Alpha: clamp01(t.Alpha),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func field(base []string, key string) []string {
	out := make([]string, len(base)+1)
	copy(out, base)
	out[len(base)] = key
	return out
}

// ExtractTint reads the tint of tree. Absent or mistyped fields fall back to
// stock gray, and the stored tintAlpha is divided by the kind's mix factor.
func ExtractTint(tree plisttree.Dict, kind catalog.Kind) Tint {
	mix := kind.MixFactor()
	stored := plisttree.Get(tree, tintAlphaPath, mix)
	return Tint{
		Red:   plisttree.Get(tree, field(tintColorPath, "red"), StockGray.Red),
		Green: plisttree.Get(tree, field(tintColorPath, "green"), StockGray.Green),
		Blue:  plisttree.Get(tree, field(tintColorPath, "blue"), StockGray.Blue),
		Alpha: stored / mix,
	}
}

// ExtractBlur reads the blur radius of tree, defaulting to DefaultBlur.
func ExtractBlur(tree plisttree.Dict) Blur {
	return Blur(plisttree.Get(tree, blurRadiusPath, int64(DefaultBlur)))
}

// WriteRecipe stores tint and blur into tree in place.
func WriteRecipe(tree plisttree.Dict, tint Tint, blur Blur, kind catalog.Kind) error {
	tint = tint.Clamp()
	if blur < 0 {
		blur = 0
	}

	fields := []struct {
		path  []string
		value plisttree.Value
	}{
		{field(tintColorPath, "red"), plisttree.Float(tint.Red)},
		{field(tintColorPath, "green"), plisttree.Float(tint.Green)},
		{field(tintColorPath, "blue"), plisttree.Float(tint.Blue)},
		{field(tintColorPath, "alpha"), plisttree.Float(1)},
		{tintAlphaPath, plisttree.Float(tint.Alpha * kind.MixFactor())},
		{blurRadiusPath, plisttree.Int(int64(blur))},
	}
	for _, f := range fields {
		if err := plisttree.Set(tree, f.path, f.value); err != nil {
			return err
		}
	}
	return nil
}
