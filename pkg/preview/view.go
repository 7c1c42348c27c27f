package preview

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-resumetpl/pkg/engine"
	"github.com/goliatone/go-resumetpl/pkg/layout"
	"github.com/goliatone/go-resumetpl/pkg/sections"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

// Style keys emitted as plain CSS properties. Every other key becomes a
// custom property named --rt-<kebab-key>.
var cssProperties = map[string]bool{
	"color":           true,
	"backgroundColor": true,
	"borderColor":     true,
	"borderWidth":     true,
	"borderStyle":     true,
	"borderRadius":    true,
	"fontFamily":      true,
	"fontSize":        true,
	"fontWeight":      true,
	"lineHeight":      true,
	"letterSpacing":   true,
	"textAlign":       true,
	"textTransform":   true,
	"margin":          true,
	"padding":         true,
}

type documentView struct {
	TemplateID string
	Title      string
	ClassName  string
	CSS        string
	Slots      []slotView
}

type slotView struct {
	Name       layout.Slot
	GridColumn string
	Sections   []sectionView
}

type sectionView struct {
	Type      string
	Title     string
	ShowTitle bool
	ClassName string
	GridArea  string
	CSS       string
	Blocks    []blockView
}

// blockView mirrors sections.Block with a plain string kind so templates can
// compare it against literals.
type blockView struct {
	Kind  string
	Label string
	Text  string
	Meta  map[string]string
	Items []blockView
}

func newBlocks(blocks []sections.Block) []blockView {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]blockView, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockView{
			Kind:  string(b.Kind),
			Label: b.Label,
			Text:  b.Text,
			Meta:  b.Meta,
			Items: newBlocks(b.Items),
		})
	}
	return out
}

func newView(doc *engine.Document) documentView {
	c := doc.Container
	decls := []string{
		"grid-template-columns: " + gridColumns(c),
	}
	if safeValue(c.GridTemplateAreas) {
		decls = append(decls, "grid-template-areas: "+c.GridTemplateAreas)
	}
	for _, d := range [][2]string{{"max-width", c.MaxWidth}, {"gap", c.Gap}, {"padding", c.Padding}} {
		if safeValue(d[1]) {
			decls = append(decls, d[0]+": "+d[1])
		}
	}
	decls = append(decls, declarations(c.Style)...)

	view := documentView{
		TemplateID: doc.TemplateID,
		Title:      doc.Metadata.Name,
		ClassName:  c.ClassName,
		CSS:        strings.Join(decls, "; "),
	}
	if view.Title == "" {
		view.Title = doc.TemplateID
	}
	for _, slot := range doc.Slots {
		sv := slotView{Name: slot.Name, GridColumn: gridColumn(slot.Span)}
		for _, section := range slot.Sections {
			secDecls := declarations(section.Style)
			if section.Accent != "" && safeValue(section.Accent) {
				secDecls = append(secDecls, "--rt-accent: "+section.Accent)
			}
			if section.GridArea != "" && safeValue(section.GridArea) {
				secDecls = append(secDecls, "grid-area: "+section.GridArea)
			}
			sv.Sections = append(sv.Sections, sectionView{
				Type:      string(section.Type),
				Title:     section.Title,
				ShowTitle: section.ShowTitle,
				ClassName: section.ClassName,
				GridArea:  section.GridArea,
				CSS:       strings.Join(secDecls, "; "),
				Blocks:    newBlocks(section.Blocks),
			})
		}
		view.Slots = append(view.Slots, sv)
	}
	return view
}

func gridColumns(c engine.Container) string {
	if c.GridTemplateColumns != "" && safeValue(c.GridTemplateColumns) {
		return c.GridTemplateColumns
	}
	columns := c.Columns
	if columns < 1 {
		columns = 1
	}
	return fmt.Sprintf("repeat(%d, minmax(0, 1fr))", columns)
}

func gridColumn(span layout.Span) string {
	switch {
	case span.FullWidth:
		return "1 / -1"
	case span.Column > 0 && span.Width > 0:
		return fmt.Sprintf("%d / span %d", span.Column, span.Width)
	case span.Column > 0:
		return fmt.Sprintf("%d", span.Column)
	}
	return "auto"
}

// declarations renders s in key order, dropping values that could escape the
// style attribute.
func declarations(s style.Style) []string {
	var out []string
	for _, key := range s.Keys() {
		value, ok := s.Get(key)
		if !ok || !safeValue(value) {
			continue
		}
		prop := kebab(key)
		if !cssProperties[key] {
			prop = "--rt-" + prop
		}
		out = append(out, prop+": "+value)
	}
	return out
}

func safeValue(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.ContainsAny(value, ";{}<>\\")
}

func kebab(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
