package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-resumetpl/pkg/engine"
	"github.com/goliatone/go-resumetpl/pkg/preview"
	"github.com/goliatone/go-resumetpl/pkg/resume"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

type renderOptions struct {
	template  string
	data      string
	out       string
	overrides style.Overrides
	compact   bool
	noInput   bool
	format    string
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render résumé data through a template",
		Long:  "Loads the template (prompting for one on a terminal when --template is omitted), renders the résumé and writes the document tree as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRender(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.template, "template", "t", "", "Template id")
	f.StringVarP(&opts.data, "data", "d", "", "Path to résumé data, JSON or YAML (required)")
	f.StringVarP(&opts.out, "out", "o", "", "Output file (stdout if empty)")
	f.StringVar(&opts.overrides.PrimaryColor, "primary-color", "", "Runtime primary colour override")
	f.StringVar(&opts.overrides.FontFamily, "font-family", "", "Runtime body font override")
	f.StringVar(&opts.overrides.HeaderFontFamily, "header-font", "", "Runtime header font override")
	f.IntVar(&opts.overrides.FontSize, "font-size", 0, "Runtime base font size in px")
	f.BoolVar(&opts.compact, "compact", false, "Write compact JSON")
	f.BoolVar(&opts.noInput, "no-input", false, "Never prompt; use the configured default template")
	f.StringVar(&opts.format, "format", "json", "Output format: json or html")

	if err := cmd.MarkFlagRequired("data"); err != nil {
		panic(fmt.Sprintf("failed to mark data flag as required: %v", err))
	}
	return cmd
}

func (a *app) runRender(ctx context.Context, stdout io.Writer, opts *renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch opts.format {
	case "", "json", "html":
	default:
		return fmt.Errorf("unsupported format %q (want json or html)", opts.format)
	}

	raw, err := os.ReadFile(opts.data)
	if err != nil {
		return fmt.Errorf("read résumé data: %w", err)
	}
	data, err := resume.Parse(raw)
	if err != nil {
		return err
	}

	srcs, err := a.openSources(ctx)
	if err != nil {
		return err
	}
	defer srcs.Close()

	reg := a.newRegistry(srcs.chain)
	templateID := strings.TrimSpace(opts.template)
	if templateID == "" {
		templateID, err = a.pickTemplate(ctx, reg, !opts.noInput && isTerminal(os.Stdin))
		if err != nil {
			return err
		}
	}

	doc, err := a.newEngine(reg).Render(ctx, engine.Request{
		TemplateID: templateID,
		Data:       &data,
		Overrides:  opts.overrides,
	})
	if err != nil {
		var rErr *engine.RenderError
		if errors.As(err, &rErr) && rErr.State == engine.StateInvalid {
			return fmt.Errorf("template %q failed validation: %w", templateID, err)
		}
		return err
	}

	if opts.format == "html" {
		return writeHTML(stdout, opts.out, doc)
	}
	return writeDocument(stdout, opts.out, doc, opts.compact)
}

func writeDocument(stdout io.Writer, path string, doc *engine.Document, compact bool) error {
	var (
		payload []byte
		err     error
	)
	if compact {
		payload, err = json.Marshal(doc)
	} else {
		payload, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	payload = append(payload, '\n')
	return writeOutput(stdout, path, payload)
}

func writeHTML(stdout io.Writer, path string, doc *engine.Document) error {
	renderer, err := preview.New()
	if err != nil {
		return err
	}
	page, err := renderer.Render(doc)
	if err != nil {
		return err
	}
	return writeOutput(stdout, path, []byte(page))
}

func writeOutput(stdout io.Writer, path string, payload []byte) error {
	if path == "" {
		_, err := stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(stdout, "Document written to %s\n", path)
	return nil
}
