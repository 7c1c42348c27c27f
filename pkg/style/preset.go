package style

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Catalog keeps go-theme manifests that act as named palettes ("presets").
// It satisfies theme.ThemeSelector so callers that already carry a selector
// from another go-theme integration can swap it in.
type Catalog struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// NewCatalog constructs an empty catalog. defaultTheme/defaultVariant are
// used when Select receives blank arguments.
func NewCatalog(defaultTheme, defaultVariant string) *Catalog {
	return &Catalog{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
}

// Register adds a manifest keyed by its Name. Duplicate names return an error.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("style: manifest is required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("style: manifest name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.manifests[name]; exists {
		return fmt.Errorf("style: preset %q already registered", name)
	}
	c.manifests[name] = manifest
	return nil
}

// Names lists registered preset names in lexical order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves a manifest and variant. Unknown variants are an error so a
// typo does not silently fall back to the base palette.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = c.defaultTheme
		if variant == "" {
			variant = c.defaultVariant
		}
	}
	if name == "" {
		return nil, fmt.Errorf("style: preset name is required")
	}

	c.mu.RLock()
	manifest, ok := c.manifests[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("style: preset %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("style: preset %q has no variant %q", name, variant)
		}
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// PresetStyle flattens a selection into a style layer: manifest tokens first,
// then the selected variant's tokens.
func PresetStyle(selection *theme.Selection) Style {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	base := Style(selection.Manifest.Tokens)
	if selection.Variant == "" {
		return Cascade(base)
	}
	variant, ok := selection.Manifest.Variants[selection.Variant]
	if !ok {
		return Cascade(base)
	}
	return Cascade(base, Style(variant.Tokens))
}
