package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-resumetpl/pkg/engine"
	"github.com/goliatone/go-resumetpl/pkg/registry"
	"github.com/goliatone/go-resumetpl/pkg/resume"
)

type watchOptions struct {
	template    string
	data        string
	out         string
	metricsAddr string
}

func newWatchCmd(a *app) *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever descriptors in --templates-dir change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.template, "template", "t", "", "Template id (defaults to the configured default)")
	f.StringVarP(&opts.data, "data", "d", "", "Path to résumé data (required)")
	f.StringVarP(&opts.out, "out", "o", "", "Output file (required)")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve registry metrics on this address, e.g. :9090")
	for _, name := range []string{"data", "out"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}

func (a *app) runWatch(ctx context.Context, cmd *cobra.Command, opts *watchOptions) error {
	if a.cfg.TemplatesDir == "" {
		return errors.New("watch requires --templates-dir")
	}
	templateID := opts.template
	if templateID == "" {
		templateID = a.cfg.DefaultTemplate
	}

	srcs, err := a.openSources(ctx)
	if err != nil {
		return err
	}
	defer srcs.Close()

	promReg := prometheus.NewRegistry()
	reg := a.newRegistry(srcs.chain, registry.WithMetrics(promReg))
	eng := a.newEngine(reg)

	if opts.metricsAddr != "" {
		srv := &http.Server{
			Addr:              opts.metricsAddr,
			Handler:           promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	render := func() {
		raw, err := os.ReadFile(opts.data)
		if err != nil {
			a.logger.Error("read résumé data failed", "error", err)
			return
		}
		data, err := resume.Parse(raw)
		if err != nil {
			a.logger.Error("parse résumé data failed", "error", err)
			return
		}
		doc, err := eng.Render(ctx, engine.Request{TemplateID: templateID, Data: &data})
		if err != nil {
			a.logger.Error("render failed", "template_id", templateID, "error", err)
			return
		}
		if err := writeDocument(cmd.OutOrStdout(), opts.out, doc, false); err != nil {
			a.logger.Error("write failed", "error", err)
		}
	}

	w, err := registry.NewWatcher(reg, a.cfg.TemplatesDir,
		registry.WithDebounce(a.cfg.Debounce()),
		registry.WithReloader(srcs.dir),
		registry.WithWatchLogger(a.logger),
		registry.OnChange(func([]string) { render() }),
	)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	render()
	<-ctx.Done()
	return w.Stop()
}
