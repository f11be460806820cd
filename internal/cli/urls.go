package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/briancappello/starter/internal/transport/rest"
)

func newURLsCommand(opts *RootOptions, d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "urls",
		Short: "List the HTTP routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			routes, err := d.routes(opts)
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), routes)
		},
	}
}

func printRoutes(w io.Writer, routes []rest.Route) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\n", r.Method, r.Path)
	}
	return tw.Flush()
}
