package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vavive/rotas/pkg/core/services"
)

// ViewAuditCmd creates the viewAudit command
func ViewAuditCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewAudit [runID]",
		Short: "Show the proximity audit for a schedule run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Database == nil {
				return fmt.Errorf("databaseURL is not configured")
			}

			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}

			result, err := services.ViewAudit(app.Ctx, app.Database, app.Logger, runID)
			if err != nil {
				return fmt.Errorf("failed to view audit: %w", err)
			}

			fmt.Printf("\nRun %s (%s) — %d audited orders\n\n",
				result.Run.ID, result.Run.RunAt, len(result.Audits))

			for _, audit := range result.Audits {
				assigned := audit.AssignedID
				if assigned == "" {
					assigned = "unassigned"
				}
				fmt.Printf("OS %s — %s — assigned: %s%s — nearest: %s%s\n",
					audit.OrderID, audit.ServiceDate,
					assigned, formatKm(audit.AssignedKm),
					audit.NearestID, formatKm(audit.NearestKm))
				if audit.Reason != "" {
					fmt.Printf("  %s\n", audit.Reason)
				}
			}

			return nil
		},
	}
}

func formatKm(km *float64) string {
	if km == nil {
		return ""
	}
	return fmt.Sprintf(" (%.2f km)", *km)
}
