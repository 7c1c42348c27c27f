// Package layout turns a descriptor's layout shape and section positions into
// a slot plan: which structural slot each visible section lands in, in what
// order, and how many grid columns each slot spans.
package layout

import (
	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

// Slot is a structural region of the document.
type Slot string

const (
	SlotHeader  Slot = "header"
	SlotMain    Slot = "main"
	SlotSidebar Slot = "sidebar"
	SlotBottom  Slot = "bottom"
)

// SlotOrder is the order slots are emitted in a plan.
var SlotOrder = []Slot{SlotHeader, SlotMain, SlotSidebar, SlotBottom}

// Span describes the grid columns a slot occupies. Column is 1-based. A zero
// Span means the layout does not infer spans (custom-grid).
type Span struct {
	Column    int  `json:"column,omitempty"`
	Width     int  `json:"width,omitempty"`
	FullWidth bool `json:"fullWidth,omitempty"`
}

// IsZero reports whether no span was inferred.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Placement is one section within a slot.
type Placement struct {
	Section descriptor.SectionConfig
	// GridArea is the declared position for custom positions; empty for the
	// named ones.
	GridArea string
}

// SlotPlan lists the sections of one slot in render order.
type SlotPlan struct {
	Slot       Slot
	Span       Span
	Placements []Placement
}

// Plan is the composed layout for one render.
type Plan struct {
	LayoutType          descriptor.LayoutType
	Columns             int
	GridTemplateColumns string
	GridTemplateAreas   string
	MaxWidth            string
	Gap                 string
	Padding             string
	ClassName           string
	Slots               []SlotPlan
}

// Slot returns the plan for name, or false when the slot is empty.
func (p Plan) Slot(name Slot) (SlotPlan, bool) {
	for _, slot := range p.Slots {
		if slot.Slot == name {
			return slot, true
		}
	}
	return SlotPlan{}, false
}

// SlotFor maps a position to its slot. Blank and custom positions go to main.
func SlotFor(position descriptor.Position) Slot {
	switch position {
	case descriptor.PositionTop, descriptor.PositionAfterHeader:
		return SlotHeader
	case descriptor.PositionSidebar:
		return SlotSidebar
	case descriptor.PositionBottom:
		return SlotBottom
	default:
		return SlotMain
	}
}

// Columns returns the structural column count of a layout.
func Columns(l descriptor.Layout) int {
	switch l.Type {
	case descriptor.LayoutTwoColumn:
		return 2
	case descriptor.LayoutThreeColumn:
		return 3
	case descriptor.LayoutCustomGrid:
		return l.Columns
	default:
		return 1
	}
}

// SpanFor returns the columns a slot spans in the given layout.
func SpanFor(layoutType descriptor.LayoutType, slot Slot) Span {
	switch layoutType {
	case descriptor.LayoutTwoColumn:
		switch slot {
		case SlotMain:
			return Span{Column: 1, Width: 1}
		case SlotSidebar:
			return Span{Column: 2, Width: 1}
		default:
			return Span{Column: 1, Width: 2, FullWidth: true}
		}
	case descriptor.LayoutThreeColumn:
		switch slot {
		case SlotMain:
			return Span{Column: 1, Width: 2}
		case SlotSidebar:
			return Span{Column: 3, Width: 1}
		default:
			return Span{Column: 1, Width: 3, FullWidth: true}
		}
	case descriptor.LayoutCustomGrid:
		return Span{}
	default:
		return Span{Column: 1, Width: 1, FullWidth: true}
	}
}

// Compose filters invisible sections, sorts the rest, and distributes them
// over slots. Empty slots are omitted. Compose is pure.
func Compose(l descriptor.Layout, sections []descriptor.SectionConfig, policy Policy) Plan {
	plan := Plan{
		LayoutType:          l.Type,
		Columns:             Columns(l),
		GridTemplateColumns: l.GridTemplateColumns,
		GridTemplateAreas:   l.GridTemplateAreas,
		MaxWidth:            policy.MaxWidth(l.MaxWidth),
		Gap:                 policy.ClampGap(l.Gap),
		Padding:             policy.ClampPadding(l.Padding),
		ClassName:           l.ClassName,
	}

	grouped := make(map[Slot][]Placement, len(SlotOrder))
	for _, section := range Sort(Visible(sections)) {
		slot := SlotFor(section.Position)
		placement := Placement{Section: section}
		if Rank(section.Position) == customRank && section.Position != "" {
			placement.GridArea = string(section.Position)
		}
		grouped[slot] = append(grouped[slot], placement)
	}

	for _, slot := range SlotOrder {
		placements := grouped[slot]
		if len(placements) == 0 {
			continue
		}
		plan.Slots = append(plan.Slots, SlotPlan{
			Slot:       slot,
			Span:       SpanFor(l.Type, slot),
			Placements: placements,
		})
	}
	return plan
}
