package style

import "strconv"

// Overrides carries the live customisation a caller applies on top of a
// template, such as a user-picked accent colour or font size.
type Overrides struct {
	// PrimaryColor replaces the accent colour used for titles and rules.
	PrimaryColor string `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
	// FontFamily applies to body sections (main, sidebar, bottom).
	FontFamily string `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	// HeaderFontFamily applies to header slot sections. Falls back to
	// FontFamily when empty.
	HeaderFontFamily string `json:"headerFontFamily,omitempty" yaml:"headerFontFamily,omitempty"`
	// FontSize in pixels; zero leaves the template value in place.
	FontSize int `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	// Extra holds arbitrary keys applied after the typed fields.
	Extra Style `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// IsZero reports whether the overrides define nothing.
func (o Overrides) IsZero() bool {
	return o.PrimaryColor == "" &&
		o.FontFamily == "" &&
		o.HeaderFontFamily == "" &&
		o.FontSize <= 0 &&
		o.Extra.Empty()
}

// Layer converts the overrides into the runtime style layer. Header sections
// take HeaderFontFamily when one is set.
func (o Overrides) Layer(header bool) Style {
	layer := Style{}
	if o.PrimaryColor != "" {
		layer[KeyPrimaryColor] = o.PrimaryColor
	}
	font := o.FontFamily
	if header && o.HeaderFontFamily != "" {
		font = o.HeaderFontFamily
	}
	if font != "" {
		layer[KeyFontFamily] = font
	}
	if o.FontSize > 0 {
		layer[KeyFontSize] = strconv.Itoa(o.FontSize) + "px"
	}
	return Cascade(layer, o.Extra)
}
