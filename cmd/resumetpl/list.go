package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) runList(ctx context.Context, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	srcs, err := a.openSources(ctx)
	if err != nil {
		return err
	}
	defer srcs.Close()

	items, err := a.newRegistry(srcs.chain).List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
	for _, meta := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", meta.ID, meta.Name, meta.Category)
	}
	return w.Flush()
}
