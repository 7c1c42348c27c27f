package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-resumetpl/pkg/source"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the templates table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			if a.cfg.DatabaseURL == "" {
				return errors.New("migrate requires --database-url or DATABASE_URL")
			}
			db, err := source.OpenPostgres(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := source.Migrate(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "templates table is up to date")
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	var fromDir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert template descriptors into Postgres",
		Long:  "Validates every descriptor in --from (the embedded templates when omitted) and upserts it into the templates table.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			if a.cfg.DatabaseURL == "" {
				return errors.New("seed requires --database-url or DATABASE_URL")
			}

			var fsys fs.FS = source.EmbeddedFS()
			if fromDir != "" {
				dir, err := source.NewDir(fromDir)
				if err != nil {
					return err
				}
				return a.seedFrom(ctx, cmd.OutOrStdout(), dir)
			}
			files, err := source.NewFS(fsys)
			if err != nil {
				return err
			}
			return a.seedFrom(ctx, cmd.OutOrStdout(), files)
		},
	}
	cmd.Flags().StringVar(&fromDir, "from", "", "Directory of descriptors to seed")
	return cmd
}

func (a *app) seedFrom(ctx context.Context, stdout io.Writer, files *source.FS) error {
	db, err := source.OpenPostgres(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := source.Migrate(ctx, db); err != nil {
		return err
	}

	store := source.NewPostgres(db)
	for _, id := range files.IDs() {
		raw, err := files.Fetch(ctx, id)
		if err != nil {
			return err
		}
		slug, err := store.Put(ctx, raw)
		if err != nil {
			return fmt.Errorf("seed %s: %w", id, err)
		}
		a.logger.Info("template seeded", "template_id", slug)
		fmt.Fprintf(stdout, "seeded %s\n", slug)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
