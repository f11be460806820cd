package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/briancappello/starter/internal/app"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "starter %s\n", app.BuildVersion())
		},
	}
}
