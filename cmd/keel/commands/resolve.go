package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/keel/internal/core/domain"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Compute a full resolution without fetching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Resolve(cmd.Context(), c.projectDir(cmd))

			// Conflicts and cycles come back as data alongside the error so
			// everything found can be shown, not just the first failure.
			if report != nil {
				for _, conflict := range report.Conflicts {
					cmd.Printf("conflict: %s requires %s (%s) and %s (%s)\n",
						conflict.Package,
						conflict.First.Constraint, conflict.First.RequestedBy,
						conflict.Second.Constraint, conflict.Second.RequestedBy,
					)
				}
				if report.Cycle != nil {
					cmd.Printf("cycle: %s\n", report.Cycle)
				}
			}
			if err != nil {
				if errors.Is(err, domain.ErrConflictsDetected) ||
					errors.Is(err, domain.ErrVersionConflict) ||
					errors.Is(err, domain.ErrCycleDetected) {
					return errors.New("resolution failed")
				}
				return err
			}

			for _, pkg := range report.Packages {
				cmd.Printf("%s %s\n", pkg.Name, pkg.Version)
			}
			if report.Tree != "" {
				cmd.Println()
				cmd.Print(report.Tree)
			}

			stale, err := c.app.Stale(c.projectDir(cmd))
			if err != nil {
				return err
			}
			if stale {
				cmd.Println("keel.lock is out of date; run `keel install`")
			}
			return nil
		},
	}
}
