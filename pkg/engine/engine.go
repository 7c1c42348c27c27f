// Package engine renders résumé data through a template descriptor into a
// styled, slotted Document.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/layout"
	"github.com/goliatone/go-resumetpl/pkg/registry"
	"github.com/goliatone/go-resumetpl/pkg/resume"
	"github.com/goliatone/go-resumetpl/pkg/sections"
	"github.com/goliatone/go-resumetpl/pkg/source"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

// Option customises the engine.
type Option func(*Engine)

// WithRegistry injects the template registry. Takes precedence over
// WithSource.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithSource builds a registry over src.
func WithSource(src descriptor.Source) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithSections replaces the section renderer table.
func WithSections(reg *sections.Registry) Option {
	return func(e *Engine) {
		e.sections = reg
	}
}

// WithLayoutPolicy sets the padding/gap clamp policy.
func WithLayoutPolicy(policy layout.Policy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithThemeSelector resolves Request.Preset into theme tokens.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(e *Engine) {
		e.themes = selector
	}
}

// WithLogger sets the logger for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine composes documents. It is safe for concurrent use once constructed.
type Engine struct {
	registry *registry.Registry
	source   descriptor.Source
	sections *sections.Registry
	policy   layout.Policy
	themes   theme.ThemeSelector
	logger   *slog.Logger
}

// New constructs an Engine. Without a registry or source it serves the
// embedded templates; without a section table it uses sections.Default().
func New(opts ...Option) *Engine {
	e := &Engine{policy: layout.DefaultPolicy()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.applyDefaults()
	return e
}

func (e *Engine) applyDefaults() {
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.registry == nil {
		src := e.source
		if src == nil {
			src = source.Embedded()
		}
		e.registry = registry.New(src, registry.WithLogger(e.logger))
	}
	if e.sections == nil {
		e.sections = sections.Default()
	}
}

// Registry exposes the template registry backing the engine.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Request describes one render.
type Request struct {
	TemplateID string
	// Data is read only. Nil renders as an empty résumé.
	Data *resume.Data
	// Overrides is the runtime style layer (highest precedence).
	Overrides style.Overrides
	// Preset names a theme preset whose tokens fill theme keys the
	// descriptor leaves undefined. Requires WithThemeSelector.
	Preset        string
	PresetVariant string
}

// Render loads the template, composes its layout and renders every visible
// section. Load failures are returned as *RenderError.
func (e *Engine) Render(ctx context.Context, req Request) (*Document, error) {
	if ctx == nil {
		return nil, errors.New("engine: context is required")
	}
	id := strings.TrimSpace(req.TemplateID)
	log := e.logger.With("render_id", uuid.NewString(), "template_id", id)
	log.Debug("render state", "state", StateIdle)

	if err := ctx.Err(); err != nil {
		return nil, &RenderError{TemplateID: id, State: StateFailed, Cause: err}
	}

	log.Debug("render state", "state", StateLoading)
	tpl, err := e.registry.Load(ctx, id)
	if err != nil {
		rErr := loadError(id, err)
		log.Debug("render state", "state", rErr.State, "error", err)
		return nil, rErr
	}
	log.Debug("render state", "state", StateValidated)

	themeLayer, err := e.themeLayer(tpl, req)
	if err != nil {
		log.Debug("render state", "state", StateFailed, "error", err)
		return nil, &RenderError{TemplateID: id, State: StateFailed, Cause: err}
	}

	data := req.Data
	if data == nil {
		data = &resume.Data{}
	}

	log.Debug("render state", "state", StateComposing)
	plan := layout.Compose(tpl.Layout, tpl.Sections, e.policy)
	doc := &Document{
		TemplateID: id,
		Metadata:   tpl.Metadata,
		Container: Container{
			LayoutType:          plan.LayoutType,
			Columns:             plan.Columns,
			GridTemplateColumns: plan.GridTemplateColumns,
			GridTemplateAreas:   plan.GridTemplateAreas,
			MaxWidth:            plan.MaxWidth,
			Gap:                 plan.Gap,
			Padding:             plan.Padding,
			ClassName:           plan.ClassName,
			Style:               style.Cascade(themeLayer, tpl.StyleBlock(descriptor.StyleContainer), req.Overrides.Layer(false)).Clone(),
		},
	}

	for _, slotPlan := range plan.Slots {
		slot := Slot{Name: slotPlan.Slot, Span: slotPlan.Span}
		for _, placement := range slotPlan.Placements {
			section, ok := e.renderSection(log, tpl, data, themeLayer, req.Overrides, slotPlan.Slot, placement)
			if !ok {
				continue
			}
			slot.Sections = append(slot.Sections, section)
		}
		if len(slot.Sections) == 0 {
			continue
		}
		doc.Slots = append(doc.Slots, slot)
	}

	log.Debug("render state", "state", StateRendered, "slots", len(doc.Slots))
	return doc, nil
}

func (e *Engine) renderSection(
	log *slog.Logger,
	tpl *descriptor.Template,
	data *resume.Data,
	themeLayer style.Style,
	overrides style.Overrides,
	slot layout.Slot,
	placement layout.Placement,
) (Section, bool) {
	cfg := placement.Section
	renderer, ok := e.sections.Resolve(cfg.Type)
	if !ok {
		log.Debug("section skipped, no renderer", "section_type", cfg.Type, "slot", slot)
		return Section{}, false
	}

	effective := style.Resolve(
		themeLayer,
		tpl.SectionStyle(cfg.Type),
		cfg.Style,
		overrides.Layer(isHeader(slot, cfg.Type)),
	)

	content, ok := renderer(data, cfg, effective)
	if !ok || content.Empty() {
		log.Debug("section skipped, empty content", "section_type", cfg.Type, "slot", slot)
		return Section{}, false
	}
	return Section{Content: content, GridArea: placement.GridArea}, true
}

// themeLayer is the descriptor theme with preset tokens filling undefined keys.
func (e *Engine) themeLayer(tpl *descriptor.Template, req Request) (style.Style, error) {
	base := tpl.Theme.Style()
	if strings.TrimSpace(req.Preset) == "" {
		return base, nil
	}
	if e.themes == nil {
		return nil, fmt.Errorf("engine: preset %q requested but no theme selector configured", req.Preset)
	}
	selection, err := e.themes.Select(req.Preset, req.PresetVariant)
	if err != nil {
		return nil, fmt.Errorf("engine: select preset %q: %w", req.Preset, err)
	}
	return style.Cascade(style.PresetStyle(selection), base), nil
}

func isHeader(slot layout.Slot, sectionType descriptor.SectionType) bool {
	return slot == layout.SlotHeader || strings.HasPrefix(string(sectionType), string(descriptor.SectionHeader))
}
