package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

func (c *CLI) newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Validate dependencies against the project policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Audit(c.projectDir(cmd))
			if err != nil {
				return err
			}

			for _, v := range report.Violations {
				cmd.Printf("violation: %s: %s\n", v.Package, v.Message)
			}
			cmd.Printf("audited %d dependencies: %d passed, %d failed\n",
				report.Total, report.Passed, report.Failed)

			if report.Failed > 0 {
				return errors.New("policy audit failed")
			}
			return nil
		},
	}
}
