package layout

import (
	"sort"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

// Position precedence used to order sections that declare no explicit order.
var positionRank = map[descriptor.Position]int{
	descriptor.PositionTop:         1,
	descriptor.PositionAfterHeader: 2,
	descriptor.PositionMain:        3,
	descriptor.PositionSidebar:     4,
	descriptor.PositionBottom:      5,
}

const customRank = 99

// Rank returns the precedence of a position; custom positions rank last.
func Rank(position descriptor.Position) int {
	if rank, ok := positionRank[position]; ok {
		return rank
	}
	return customRank
}

// Sort returns a new slice ordered by the two-tier rule. Sections with an
// explicit order come first, ascending. The rest follow by position rank.
// Ties keep their descriptor order. The input is not modified.
func Sort(sections []descriptor.SectionConfig) []descriptor.SectionConfig {
	out := make([]descriptor.SectionConfig, len(sections))
	copy(out, sections)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b descriptor.SectionConfig) bool {
	switch {
	case a.HasOrder() && b.HasOrder():
		return *a.Order < *b.Order
	case a.HasOrder():
		return true
	case b.HasOrder():
		return false
	default:
		return Rank(a.Position) < Rank(b.Position)
	}
}

// Visible drops sections that set visible to false.
func Visible(sections []descriptor.SectionConfig) []descriptor.SectionConfig {
	out := make([]descriptor.SectionConfig, 0, len(sections))
	for _, section := range sections {
		if section.IsVisible() {
			out = append(out, section)
		}
	}
	return out
}
