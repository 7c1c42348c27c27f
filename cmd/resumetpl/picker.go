package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-resumetpl/pkg/registry"
)

// pickTemplate prompts for a template when interactive and falls back to the
// configured default otherwise.
func (a *app) pickTemplate(ctx context.Context, reg *registry.Registry, interactive bool) (string, error) {
	fallback := a.cfg.DefaultTemplate
	if !interactive {
		return fallback, nil
	}

	items, err := reg.List(ctx)
	if err != nil || len(items) == 0 {
		a.logger.Debug("template listing unavailable, using default", "error", err)
		return fallback, nil
	}

	options := make([]string, 0, len(items))
	ids := make(map[string]string, len(items))
	def := ""
	for _, meta := range items {
		label := fmt.Sprintf("%s (%s)", meta.Name, meta.ID)
		options = append(options, label)
		ids[label] = meta.ID
		if meta.ID == fallback {
			def = label
		}
	}

	prompt := &survey.Select{
		Message:  "Choose a template:",
		Options:  options,
		PageSize: 10,
	}
	if def != "" {
		prompt.Default = def
	}
	var choice string
	if err := survey.AskOne(prompt, &choice); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errors.New("template selection cancelled")
		}
		return "", fmt.Errorf("template prompt: %w", err)
	}
	return ids[choice], nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
