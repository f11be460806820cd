package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/briancappello/starter/internal/adapter/postgres"
	"github.com/briancappello/starter/internal/app"
)

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	run := func(fn func(ctx context.Context, m *postgres.Migrator, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			m, err := postgres.NewMigrator(cfg.Database.DSN, app.NewLogger(cfg.Log))
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(cmd.Context(), m, cmd)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, m *postgres.Migrator, _ *cobra.Command) error {
			return m.Up(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, m *postgres.Migrator, _ *cobra.Command) error {
			return m.Down(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, m *postgres.Migrator, cmd *cobra.Command) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tFILE\tAPPLIED")
			for _, s := range statuses {
				fmt.Fprintf(tw, "%d\t%s\t%t\n", s.Version, s.File, s.Applied)
			}
			return tw.Flush()
		}),
	})

	return cmd
}
