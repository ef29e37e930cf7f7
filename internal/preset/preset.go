// Package preset reads and writes shareable YAML documents of tint settings.
package preset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/material"
)

// Version is the document version written by Encode.
const Version = 1

// Preset is one kind's tint setting.
type Preset struct {
	Kind  string  `yaml:"kind"`
	Color string  `yaml:"color"`
	Alpha float64 `yaml:"alpha"`
	Blur  int     `yaml:"blur"`
}

// Document is the on-disk YAML layout.
type Document struct {
	Version int      `yaml:"version"`
	Presets []Preset `yaml:"presets"`
}

// ParseColor accepts #RRGGBB or #RGB, with or without the leading '#'.
func ParseColor(s string) (r, g, b float64, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c.R, c.G, c.B, nil
}

// FormatColor renders components in [0,1] as #rrggbb.
func FormatColor(r, g, b float64) string {
	return colorful.Color{R: r, G: g, B: b}.Clamped().Hex()
}

// FromTint builds a preset from a kind's current tint.
func FromTint(kind catalog.Kind, tint material.Tint, blur material.Blur) Preset {
	return Preset{
		Kind:  kind.String(),
		Color: FormatColor(tint.Red, tint.Green, tint.Blue),
		Alpha: tint.Alpha,
		Blur:  int(blur),
	}
}

// Resolve turns a preset into catalog and material values.
func (p Preset) Resolve() (catalog.Kind, material.Tint, material.Blur, error) {
	kind, err := catalog.ParseKind(p.Kind)
	if err != nil {
		return 0, material.Tint{}, 0, err
	}
	r, g, b, err := ParseColor(p.Color)
	if err != nil {
		return 0, material.Tint{}, 0, err
	}
	if p.Alpha < 0 || p.Alpha > 1 {
		return 0, material.Tint{}, 0, fmt.Errorf("%s: alpha %v out of range", p.Kind, p.Alpha)
	}
	if p.Blur < 0 {
		return 0, material.Tint{}, 0, fmt.Errorf("%s: blur %d is negative", p.Kind, p.Blur)
	}
	return kind, material.Tint{Red: r, Green: g, Blue: b, Alpha: p.Alpha}, material.Blur(p.Blur), nil
}

// Encode writes doc as YAML.
func Encode(w io.Writer, doc Document) error {
	if doc.Version == 0 {
		doc.Version = Version
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	return enc.Close()
}

// Decode reads a YAML document and checks that every preset resolves.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, errors.New("preset document is empty")
		}
		return Document{}, fmt.Errorf("decode presets: %w", err)
	}
	if doc.Version > Version {
		return Document{}, fmt.Errorf("preset version %d is newer than supported %d", doc.Version, Version)
	}

	seen := make(map[string]bool)
	for i, p := range doc.Presets {
		if _, _, _, err := p.Resolve(); err != nil {
			return Document{}, fmt.Errorf("preset #%d: %w", i+1, err)
		}
		if seen[p.Kind] {
			return Document{}, fmt.Errorf("preset #%d: kind %s listed twice", i+1, p.Kind)
		}
		seen[p.Kind] = true
	}
	return doc, nil
}
