// Package preview turns a composed document into a standalone HTML page. It is
// a reference output medium: the page uses CSS grid for the container, one
// element per slot, and inline styles carrying the resolved section styles.
package preview

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-resumetpl/pkg/engine"
)

//go:embed templates/*.tpl
var builtinTemplates embed.FS

// DefaultTemplate is the page template rendered when none is configured.
const DefaultTemplate = "document.tpl"

// Option configures a Renderer.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	name       string
	globalData map[string]any
}

// WithBaseDir loads page templates from a directory on disk, ahead of the
// built-in ones.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads page templates from files, ahead of the built-in ones.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithTemplateName selects the page template.
func WithTemplateName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithGlobalData seeds values available to every page.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			if key = strings.TrimSpace(key); key != "" {
				cfg.globalData[key] = value
			}
		}
	}
}

// Renderer renders documents through a pongo2 template set.
type Renderer struct {
	mu       sync.RWMutex
	set      *pongo2.TemplateSet
	name     string
	compiled *pongo2.Template
}

// New builds a Renderer. Templates from WithBaseDir and WithFS shadow the
// built-in ones of the same name.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{name: DefaultTemplate}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("preview: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	builtin, err := fs.Sub(builtinTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("preview: builtin templates: %w", err)
	}
	loaders = append(loaders, pongo2.NewFSLoader(builtin))

	set := pongo2.NewSet("resumetpl-preview", loaders...)
	set.Globals = pongo2.Context{"generator": "resumetpl"}
	for key, value := range cfg.globalData {
		set.Globals[key] = value
	}

	return &Renderer{set: set, name: cfg.name}, nil
}

// Render writes the page for doc to every writer in out and returns it.
func (r *Renderer) Render(doc *engine.Document, out ...io.Writer) (string, error) {
	if r == nil || r.set == nil {
		return "", errors.New("preview: renderer is nil")
	}
	if doc == nil {
		return "", errors.New("preview: document is nil")
	}

	tmpl, err := r.template()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context{"doc": newView(doc)}, &buf); err != nil {
		return "", fmt.Errorf("preview: execute %q: %w", r.name, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (r *Renderer) template() (*pongo2.Template, error) {
	r.mu.RLock()
	if r.compiled != nil {
		defer r.mu.RUnlock()
		return r.compiled, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.compiled != nil {
		return r.compiled, nil
	}
	tmpl, err := r.set.FromFile(r.name)
	if err != nil {
		return nil, fmt.Errorf("preview: load template %q: %w", r.name, err)
	}
	r.compiled = tmpl
	return tmpl, nil
}
