// Package descriptor defines the template descriptor: the declarative document
// that tells the engine which sections to render, where to place them, and how
// to style them. Descriptors enter the system through a Source and are parsed
// and structurally validated here before anything else looks at them.
package descriptor

import (
	"strings"

	"github.com/goliatone/go-resumetpl/pkg/style"
)

// SectionType tags the renderer responsible for a section.
type SectionType string

const (
	SectionHeader    SectionType = "header"
	SectionSummary   SectionType = "summary"
	SectionWork      SectionType = "work"
	SectionEducation SectionType = "education"
	SectionSkills    SectionType = "skills"
	SectionLanguages SectionType = "languages"

	// Clean Impact variants render the same data with a denser, upper-case
	// presentation.
	SectionHeaderCleanImpact     SectionType = "header-clean-impact"
	SectionSummaryCleanImpact    SectionType = "summary-clean-impact"
	SectionWorkCleanImpact       SectionType = "work-clean-impact"
	SectionEducationCleanImpact  SectionType = "education-clean-impact"
	SectionAdditionalCleanImpact SectionType = "additional-clean-impact"
)

// Position is where a section asks to be placed. Values outside the named set
// are custom grid areas.
type Position string

const (
	PositionTop         Position = "top"
	PositionAfterHeader Position = "after-header"
	PositionMain        Position = "main"
	PositionSidebar     Position = "sidebar"
	PositionBottom      Position = "bottom"
)

// LayoutType is the structural shape of the document container.
type LayoutType string

const (
	LayoutSingleColumn LayoutType = "single-column"
	LayoutTwoColumn    LayoutType = "two-column"
	LayoutThreeColumn  LayoutType = "three-column"
	LayoutCustomGrid   LayoutType = "custom-grid"
)

// Well known keys of Template.Styles.
const (
	StyleContainer = "container"
	StyleSection   = "section"
)

// Template is a parsed descriptor.
type Template struct {
	Metadata Metadata               `json:"metadata" yaml:"metadata"`
	Layout   Layout                 `json:"layout" yaml:"layout"`
	Sections []SectionConfig        `json:"sections" yaml:"sections" validate:"dive"`
	Theme    Theme                  `json:"theme" yaml:"theme"`
	Styles   map[string]style.Style `json:"styles,omitempty" yaml:"styles,omitempty"`
}

// Metadata identifies a template. ID and Name are required.
type Metadata struct {
	ID          string   `json:"id" yaml:"id" validate:"required,notblank"`
	Name        string   `json:"name" yaml:"name" validate:"required,notblank"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Badge       string   `json:"badge,omitempty" yaml:"badge,omitempty"`
	Preview     string   `json:"preview,omitempty" yaml:"preview,omitempty"`
	Colors      []string `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// Layout describes the container shape and spacing.
type Layout struct {
	Type                LayoutType `json:"type" yaml:"type" validate:"required,oneof=single-column two-column three-column custom-grid"`
	Columns             int        `json:"columns,omitempty" yaml:"columns,omitempty" validate:"gte=0"`
	MaxWidth            string     `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"`
	Gap                 string     `json:"gap,omitempty" yaml:"gap,omitempty"`
	Padding             string     `json:"padding,omitempty" yaml:"padding,omitempty"`
	ClassName           string     `json:"className,omitempty" yaml:"className,omitempty"`
	GridTemplateColumns string     `json:"gridTemplateColumns,omitempty" yaml:"gridTemplateColumns,omitempty"`
	GridTemplateAreas   string     `json:"gridTemplateAreas,omitempty" yaml:"gridTemplateAreas,omitempty"`
}

// SectionConfig declares one section of the document.
type SectionConfig struct {
	Type      SectionType `json:"type" yaml:"type" validate:"required"`
	Position  Position    `json:"position,omitempty" yaml:"position,omitempty"`
	Order     *int        `json:"order,omitempty" yaml:"order,omitempty"`
	Visible   *bool       `json:"visible,omitempty" yaml:"visible,omitempty"`
	Style     style.Style `json:"style,omitempty" yaml:"style,omitempty"`
	ClassName string      `json:"className,omitempty" yaml:"className,omitempty"`
	Title     string      `json:"title,omitempty" yaml:"title,omitempty"`
	ShowTitle *bool       `json:"showTitle,omitempty" yaml:"showTitle,omitempty"`
}

// IsVisible reports whether the section takes part in the render. Sections are
// visible unless they explicitly set visible to false.
func (s SectionConfig) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}

// TitleVisible reports whether the section heading should be shown.
func (s SectionConfig) TitleVisible() bool {
	return s.ShowTitle == nil || *s.ShowTitle
}

// HasOrder reports whether an explicit order index was declared.
func (s SectionConfig) HasOrder() bool {
	return s.Order != nil
}

// TitleOr returns the configured title or fallback when none is set.
func (s SectionConfig) TitleOr(fallback string) string {
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return fallback
}

// Theme carries the template's design tokens. Every field is optional.
type Theme struct {
	PrimaryColor    string `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
	SecondaryColor  string `json:"secondaryColor,omitempty" yaml:"secondaryColor,omitempty"`
	TextColor       string `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	AccentColor     string `json:"accentColor,omitempty" yaml:"accentColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	HeadingFontSize string `json:"headingFontSize,omitempty" yaml:"headingFontSize,omitempty"`
	BodyFontSize    string `json:"bodyFontSize,omitempty" yaml:"bodyFontSize,omitempty"`
}

// Style maps the theme onto the lowest cascade layer.
func (t Theme) Style() style.Style {
	return style.Style{
		style.KeyPrimaryColor:    t.PrimaryColor,
		style.KeySecondaryColor:  t.SecondaryColor,
		style.KeyColor:           t.TextColor,
		style.KeyBackgroundColor: t.BackgroundColor,
		style.KeyAccentColor:     t.AccentColor,
		style.KeyBorderColor:     t.BorderColor,
		style.KeyFontFamily:      t.FontFamily,
		style.KeyHeadingFontSize: t.HeadingFontSize,
		style.KeyFontSize:        t.BodyFontSize,
	}.Clone()
}

// StyleBlock returns the named entry of Styles, or nil.
func (t *Template) StyleBlock(name string) style.Style {
	if t == nil || t.Styles == nil {
		return nil
	}
	return t.Styles[name]
}

// SectionStyle is the template-level layer for a section type: the shared
// "section" block overlaid with the block keyed by the section's type.
func (t *Template) SectionStyle(sectionType SectionType) style.Style {
	return style.Cascade(t.StyleBlock(StyleSection), t.StyleBlock(string(sectionType)))
}
