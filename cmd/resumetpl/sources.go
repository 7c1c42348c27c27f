package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/engine"
	"github.com/goliatone/go-resumetpl/pkg/registry"
	"github.com/goliatone/go-resumetpl/pkg/source"
)

// sources is the configured source chain plus handles the commands need.
type sources struct {
	chain source.Chain
	dir   *source.FS
	db    *sql.DB
}

func (s *sources) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// openSources builds the chain: directory, HTTP, Postgres, embedded.
func (a *app) openSources(ctx context.Context) (*sources, error) {
	out := &sources{}
	cfg := a.cfg

	if cfg.TemplatesDir != "" {
		dir, err := source.NewDir(cfg.TemplatesDir)
		if err != nil {
			return nil, err
		}
		out.dir = dir
		out.chain = append(out.chain, dir)
	}
	if cfg.TemplatesURL != "" {
		httpSrc, err := source.NewHTTP(cfg.TemplatesURL, source.WithRequestTimeout(cfg.Timeout()))
		if err != nil {
			return nil, err
		}
		out.chain = append(out.chain, httpSrc)
	}
	if cfg.DatabaseURL != "" {
		db, err := source.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		out.db = db
		out.chain = append(out.chain, source.NewPostgres(db))
	}
	if !cfg.DisableEmbedded {
		out.chain = append(out.chain, source.Embedded())
	}
	if len(out.chain) == 0 {
		return nil, errors.New("no template source configured")
	}
	a.logger.Debug("template sources ready", "count", len(out.chain))
	return out, nil
}

func (a *app) newRegistry(src descriptor.Source, opts ...registry.Option) *registry.Registry {
	return registry.New(src, append([]registry.Option{registry.WithLogger(a.logger)}, opts...)...)
}

func (a *app) newEngine(reg *registry.Registry) *engine.Engine {
	return engine.New(
		engine.WithRegistry(reg),
		engine.WithLayoutPolicy(a.cfg.Policy()),
		engine.WithLogger(a.logger),
	)
}
