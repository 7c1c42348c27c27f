package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate template descriptor files",
		Long:  "Checks each JSON or YAML descriptor against the descriptor schema and reports every problem found.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd.OutOrStdout(), args)
		},
	}
}

func (a *app) runValidate(stdout io.Writer, paths []string) error {
	failed := 0
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		err = descriptor.Validate(raw)
		if err == nil {
			fmt.Fprintf(stdout, "ok    %s\n", path)
			continue
		}
		failed++
		var vErr *descriptor.ValidationError
		if !errors.As(err, &vErr) {
			fmt.Fprintf(stdout, "FAIL  %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(stdout, "FAIL  %s\n", path)
		for _, problem := range vErr.Problems {
			fmt.Fprintf(stdout, "      %s: %s\n", problem.Field, problem.Message)
		}
	}
	a.logger.Debug("validation finished", "files", len(paths), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d descriptors invalid", failed, len(paths))
	}
	return nil
}
