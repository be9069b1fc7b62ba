package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove cached artifacts not referenced by the lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := c.app.Clean(c.projectDir(cmd))
			if err != nil {
				return err
			}
			for _, hash := range removed {
				cmd.Printf("removed %s\n", hash)
			}
			cmd.Printf("removed %d cache entries\n", len(removed))
			return nil
		},
	}
}

func (c *CLI) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Scan the artifact cache for unreadable files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			corrupted, err := c.app.Doctor()
			if err != nil {
				return err
			}
			if len(corrupted) == 0 {
				cmd.Println("cache is healthy")
				return nil
			}
			for _, path := range corrupted {
				cmd.Printf("unreadable: %s\n", path)
			}
			cmd.Printf("%d unreadable files; re-run install to refetch\n", len(corrupted))
			return nil
		},
	}
}
