package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/stackdump-mirror/internal/server"
)

// newSitesCmd creates the 'sites' subcommand, which prints the site names
// found in the configured database, one per line.
func newSitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the sites in the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := resolveRuntime(cmd.Context())
			if err != nil {
				return err
			}
			names, err := server.DiscoverSites(cmd.Context(), rt.cfg)
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return fmt.Errorf("write site name: %w", err)
				}
			}
			return nil
		},
	}
}
