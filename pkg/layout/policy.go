package layout

import (
	"regexp"
	"strconv"
)

// Policy bounds container spacing. Each cap is a CSS length in rem or px.
// A declared value larger than the cap for its unit is replaced by the cap
// expressed in that unit; values that do not parse are kept verbatim.
type Policy struct {
	PaddingCapRem   float64
	PaddingCapPx    float64
	GapCapRem       float64
	GapCapPx        float64
	DefaultPadding  string
	DefaultMaxWidth string
}

// DefaultPolicy keeps documents compact: padding at most 0.5rem/8px and
// gaps at most 0.25rem/4px.
func DefaultPolicy() Policy {
	return Policy{
		PaddingCapRem:   0.5,
		PaddingCapPx:    8,
		GapCapRem:       0.25,
		GapCapPx:        4,
		DefaultPadding:  "0.5rem",
		DefaultMaxWidth: "800px",
	}
}

// Unbounded disables clamping while keeping the default padding and width.
func Unbounded() Policy {
	p := DefaultPolicy()
	p.PaddingCapRem, p.PaddingCapPx = 0, 0
	p.GapCapRem, p.GapCapPx = 0, 0
	return p
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.DefaultPadding == "" {
		p.DefaultPadding = def.DefaultPadding
	}
	if p.DefaultMaxWidth == "" {
		p.DefaultMaxWidth = def.DefaultMaxWidth
	}
	return p
}

var lengthPattern = regexp.MustCompile(`(\d+\.?\d*)(rem|px)`)

// ClampPadding applies the padding cap. Blank input yields DefaultPadding.
func (p Policy) ClampPadding(value string) string {
	p = p.withDefaults()
	if value == "" {
		value = p.DefaultPadding
	}
	return clamp(value, p.PaddingCapRem, p.PaddingCapPx)
}

// ClampGap applies the gap cap. Blank input stays blank.
func (p Policy) ClampGap(value string) string {
	if value == "" {
		return ""
	}
	return clamp(value, p.GapCapRem, p.GapCapPx)
}

// MaxWidth returns value or DefaultMaxWidth.
func (p Policy) MaxWidth(value string) string {
	if value != "" {
		return value
	}
	return p.withDefaults().DefaultMaxWidth
}

// clamp inspects the first length in value. A zero cap disables clamping for
// that unit.
func clamp(value string, capRem, capPx float64) string {
	match := lengthPattern.FindStringSubmatch(value)
	if match == nil {
		return value
	}
	n, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return value
	}
	switch match[2] {
	case "rem":
		if capRem > 0 && n > capRem {
			return formatLength(capRem, "rem")
		}
	case "px":
		if capPx > 0 && n > capPx {
			return formatLength(capPx, "px")
		}
	}
	return value
}

func formatLength(n float64, unit string) string {
	return strconv.FormatFloat(n, 'f', -1, 64) + unit
}
