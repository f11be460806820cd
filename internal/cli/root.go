// Package cli implements the starter command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/briancappello/starter/internal/app"
	"github.com/briancappello/starter/internal/config"
	"github.com/briancappello/starter/internal/transport/rest"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// deps opens the pieces each command needs. Tests replace them.
type deps struct {
	users   func(ctx context.Context, opts *RootOptions) (userAdmin, func(), error)
	cleanup func(ctx context.Context, opts *RootOptions) (tokenCleaner, func(), error)
	routes  func(opts *RootOptions) ([]rest.Route, error)
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&deps{
		users: func(ctx context.Context, opts *RootOptions) (userAdmin, func(), error) {
			a, err := openApp(ctx, opts, app.WithSyncMail())
			if err != nil {
				return nil, nil, err
			}
			return a.UserAdmin, a.Close, nil
		},
		cleanup: func(ctx context.Context, opts *RootOptions) (tokenCleaner, func(), error) {
			a, err := openApp(ctx, opts)
			if err != nil {
				return nil, nil, err
			}
			return a.Cleanup, a.Close, nil
		},
		routes: func(opts *RootOptions) ([]rest.Route, error) {
			cfg, err := loadConfig(opts)
			if err != nil {
				return nil, err
			}
			return app.RouteTable(cfg)
		},
	})
}

func newRootCommand(d *deps) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "starter",
		Short:         "Starter backend: HTTP API, migrations and user administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config.yaml (default $CONFIG_PATH or ./config.yaml)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newUsersCommand(opts, d))
	cmd.AddCommand(newURLsCommand(opts, d))
	cmd.AddCommand(newCleanupTokensCommand(opts, d))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadFile(opts.ConfigPath)
	}
	return config.Load()
}

func openApp(ctx context.Context, opts *RootOptions, appOpts ...app.Option) (*app.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, app.NewLogger(cfg.Log), appOpts...)
}
