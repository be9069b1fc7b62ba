package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/keel/internal/app"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Resolve, fetch and lock all dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, err := cmd.Flags().GetInt("jobs")
			if err != nil {
				return err
			}

			report, err := c.app.Install(cmd.Context(), c.projectDir(cmd), app.InstallOptions{Jobs: jobs})
			if err != nil {
				return err
			}

			cmd.Printf("resolved %d packages (%d fetched, %d cached)\n",
				report.Resolved, report.Fetched, report.Cached)
			cmd.Printf("wrote %s\n", report.LockfilePath)
			return nil
		},
	}

	cmd.Flags().IntP("jobs", "j", 0, "Maximum concurrent fetches (0 = one per CPU)")
	return cmd
}
