// Package sections holds the closed table of section renderers. Each renderer
// is a pure function from résumé data, section config, and effective style to
// a small content tree that embedding applications map onto their own output
// medium.
package sections

import (
	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

// BlockKind names the role of a content block.
type BlockKind string

const (
	// BlockName is the person's display name.
	BlockName BlockKind = "name"
	// BlockHeadline is the job title under the name.
	BlockHeadline BlockKind = "headline"
	// BlockContact is one contact channel; Label carries the channel.
	BlockContact BlockKind = "contact"
	// BlockParagraph is free text.
	BlockParagraph BlockKind = "paragraph"
	// BlockEntry is a dated item (job, degree) with nested bullets.
	BlockEntry BlockKind = "entry"
	// BlockBullet is a line inside an entry.
	BlockBullet BlockKind = "bullet"
	// BlockList groups items; BlockColumn is a list placed side by side.
	BlockList   BlockKind = "list"
	BlockColumn BlockKind = "column"
	// BlockItem is a single list item.
	BlockItem BlockKind = "item"
	// BlockRow is a label/value pair.
	BlockRow BlockKind = "row"
)

// Meta keys set on entry blocks.
const (
	MetaPeriod   = "period"
	MetaLocation = "location"
	MetaJobType  = "jobType"
	MetaField    = "field"
	MetaCategory = "category"
)

// Block is one node of the content tree.
type Block struct {
	Kind  BlockKind         `json:"kind"`
	Label string            `json:"label,omitempty"`
	Text  string            `json:"text,omitempty"`
	Meta  map[string]string `json:"meta,omitempty"`
	Items []Block           `json:"items,omitempty"`
}

// Content is the output of one section renderer.
type Content struct {
	Type      descriptor.SectionType `json:"type"`
	Title     string                 `json:"title,omitempty"`
	ShowTitle bool                   `json:"showTitle"`
	ClassName string                 `json:"className,omitempty"`
	// Accent is the colour used for titles and rules.
	Accent string      `json:"accent,omitempty"`
	Style  style.Style `json:"style,omitempty"`
	Blocks []Block     `json:"blocks,omitempty"`
}

// Empty reports whether the content has no blocks.
func (c Content) Empty() bool {
	return len(c.Blocks) == 0
}
