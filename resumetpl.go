// Package resumetpl composes résumé data into styled, multi-section documents
// driven by declarative template descriptors.
//
// The quickest path renders one of the embedded templates:
//
//	doc, err := resumetpl.Render(ctx, "modern-two-column", &data)
//
// Callers needing their own descriptor store build an engine over a source:
//
//	src, err := source.NewDir("./templates")
//	eng := resumetpl.NewEngine(resumetpl.WithSource(src))
package resumetpl

import (
	"context"
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/engine"
	"github.com/goliatone/go-resumetpl/pkg/layout"
	"github.com/goliatone/go-resumetpl/pkg/registry"
	"github.com/goliatone/go-resumetpl/pkg/resume"
	"github.com/goliatone/go-resumetpl/pkg/sections"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

// Document is the composed render output.
type Document = engine.Document

// Request describes one render.
type Request = engine.Request

// RenderError is returned when a template cannot be loaded.
type RenderError = engine.RenderError

// Overrides is the runtime style layer a caller can apply to a render.
type Overrides = style.Overrides

// Resume is the normalized résumé data model.
type Resume = resume.Data

// Template is a parsed template descriptor.
type Template = descriptor.Template

// NewEngine exposes the engine constructor from the top-level module.
func NewEngine(options ...engine.Option) *engine.Engine {
	return engine.New(options...)
}

// Render renders data with the template id using the embedded templates
// unless options point the engine elsewhere.
func Render(ctx context.Context, templateID string, data *Resume, options ...engine.Option) (*Document, error) {
	return engine.New(options...).Render(ctx, engine.Request{
		TemplateID: templateID,
		Data:       data,
	})
}

// RenderWithOverrides is Render with a runtime style layer.
func RenderWithOverrides(ctx context.Context, templateID string, data *Resume, overrides Overrides, options ...engine.Option) (*Document, error) {
	return engine.New(options...).Render(ctx, engine.Request{
		TemplateID: templateID,
		Data:       data,
		Overrides:  overrides,
	})
}

// WithSource serves descriptors from src.
func WithSource(src descriptor.Source) engine.Option {
	return engine.WithSource(src)
}

// WithRegistry shares a template registry (and its cache) across engines.
func WithRegistry(reg *registry.Registry) engine.Option {
	return engine.WithRegistry(reg)
}

// WithSections replaces the section renderer table.
func WithSections(reg *sections.Registry) engine.Option {
	return engine.WithSections(reg)
}

// WithLayoutPolicy sets the spacing clamp policy.
func WithLayoutPolicy(policy layout.Policy) engine.Option {
	return engine.WithLayoutPolicy(policy)
}

// WithThemeSelector passes a go-theme selector through to the engine so
// request presets can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) engine.Option {
	return engine.WithThemeSelector(selector)
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) engine.Option {
	return engine.WithLogger(logger)
}
