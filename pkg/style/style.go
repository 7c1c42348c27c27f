// Package style resolves the effective style for a rendered section by folding
// sparse style layers in a fixed precedence order: theme defaults, template
// style blocks, the section's own style, then caller supplied runtime
// overrides. A later layer's defined keys overwrite earlier ones; keys a layer
// leaves undefined fall through to the previous value.
package style

import (
	"sort"
	"strings"
)

// Canonical style keys shared by the theme mapping, runtime overrides, and
// the built-in section renderers.
const (
	KeyColor           = "color"
	KeyPrimaryColor    = "primaryColor"
	KeySecondaryColor  = "secondaryColor"
	KeyBackgroundColor = "backgroundColor"
	KeyAccentColor     = "accentColor"
	KeyBorderColor     = "borderColor"
	KeyFontFamily      = "fontFamily"
	KeyFontSize        = "fontSize"
	KeyHeadingFontSize = "headingFontSize"
)

// Style is a sparse style record. A key that is missing or holds a blank value
// is undefined and never overrides an earlier layer.
type Style map[string]string

// Get returns the value for key and whether it is defined.
func (s Style) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s[key]
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Value returns the defined value for key or fallback.
func (s Style) Value(key, fallback string) string {
	if value, ok := s.Get(key); ok {
		return value
	}
	return fallback
}

// Empty reports whether the record defines no keys.
func (s Style) Empty() bool {
	for key := range s {
		if _, ok := s.Get(key); ok {
			return false
		}
	}
	return true
}

// Keys returns the defined keys in lexical order.
func (s Style) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		if _, ok := s.Get(key); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy holding only the defined keys, with values trimmed.
// Clone of an empty record is nil.
func (s Style) Clone() Style {
	var out Style
	for key := range s {
		value, ok := s.Get(key)
		if !ok {
			continue
		}
		if out == nil {
			out = make(Style, len(s))
		}
		out[key] = value
	}
	return out
}

// Cascade folds layers left to right. Each defined key in a later layer
// replaces the accumulated value; undefined keys leave it untouched. Inputs are
// never mutated.
func Cascade(layers ...Style) Style {
	out := Style{}
	for _, layer := range layers {
		for key := range layer {
			if value, ok := layer.Get(key); ok {
				out[key] = value
			}
		}
	}
	return out
}

// Resolve computes the effective style from the four precedence levels. It is
// pure: identical inputs always yield an identical result.
func Resolve(theme, template, section, runtime Style) Style {
	return Cascade(theme, template, section, runtime)
}
