package engine

import (
	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/layout"
	"github.com/goliatone/go-resumetpl/pkg/sections"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

// Document is the composed output of one render.
type Document struct {
	TemplateID string              `json:"templateId"`
	Metadata   descriptor.Metadata `json:"metadata"`
	Container  Container           `json:"container"`
	Slots      []Slot              `json:"slots"`
}

// Container carries the outer layout parameters after clamping.
type Container struct {
	LayoutType          descriptor.LayoutType `json:"layoutType"`
	Columns             int                   `json:"columns"`
	GridTemplateColumns string                `json:"gridTemplateColumns,omitempty"`
	GridTemplateAreas   string                `json:"gridTemplateAreas,omitempty"`
	MaxWidth            string                `json:"maxWidth,omitempty"`
	Gap                 string                `json:"gap,omitempty"`
	Padding             string                `json:"padding,omitempty"`
	ClassName           string                `json:"className,omitempty"`
	Style               style.Style           `json:"style,omitempty"`
}

// Slot is one structural region with its rendered sections.
type Slot struct {
	Name     layout.Slot `json:"name"`
	Span     layout.Span `json:"span"`
	Sections []Section   `json:"sections"`
}

// Section is rendered section content placed in a slot.
type Section struct {
	sections.Content
	GridArea string `json:"gridArea,omitempty"`
}

// Slot returns the named slot, or false when it holds no sections.
func (d *Document) Slot(name layout.Slot) (Slot, bool) {
	if d == nil {
		return Slot{}, false
	}
	for _, slot := range d.Slots {
		if slot.Name == name {
			return slot, true
		}
	}
	return Slot{}, false
}

// SectionTypes lists the rendered section types in document order.
func (d *Document) SectionTypes() []descriptor.SectionType {
	if d == nil {
		return nil
	}
	var out []descriptor.SectionType
	for _, slot := range d.Slots {
		for _, section := range slot.Sections {
			out = append(out, section.Type)
		}
	}
	return out
}
