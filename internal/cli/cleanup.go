package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type tokenCleaner interface {
	Run(ctx context.Context) (int64, error)
}

func newCleanupTokensCommand(opts *RootOptions, d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-tokens",
		Short: "Delete access tokens older than the configured lifetime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cleaner, closeFn, err := d.cleanup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := cleaner.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired access tokens.\n", n)
			return nil
		},
	}
}
