package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vavive/rotas/pkg/core/engine"
	"github.com/vavive/rotas/pkg/core/services"
)

// RunScheduleCmd creates the runSchedule command
func RunScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runSchedule",
		Short: "Load the workbook, build ranked candidate lists, and persist the run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Database == nil {
				return fmt.Errorf("databaseURL is not configured")
			}

			maxCandidates, _ := cmd.Flags().GetInt("max-candidates")

			params := app.Cfg.EngineParams()
			if maxCandidates != 0 {
				if maxCandidates < engine.MinCandidatesPerOrder || maxCandidates > engine.MaxCandidatesPerOrder {
					return fmt.Errorf("max-candidates must be between %d and %d",
						engine.MinCandidatesPerOrder, engine.MaxCandidatesPerOrder)
				}
				params.MaxCandidates = maxCandidates
			}

			now := time.Now()
			data, err := app.SheetsClient.LoadInputs(app.Cfg, now)
			if err != nil {
				return fmt.Errorf("failed to load workbook: %w", err)
			}

			if len(data.UnlocatableOrders) > 0 {
				fmt.Printf("\n%d future orders have no client coordinates and were left out:\n",
					len(data.UnlocatableOrders))
				for _, order := range data.UnlocatableOrders {
					fmt.Printf("- OS %s (%s) on %s\n", order.ID, order.ClientName, order.Day())
				}
			}

			result, err := services.RunSchedule(app.Ctx, app.Database, app.Logger, services.RunScheduleArgs{
				Inputs: data.EngineInputs(),
				Params: params,
				RunAt:  now,
			})
			if err != nil {
				return fmt.Errorf("failed to run schedule: %w", err)
			}

			fmt.Printf("\nRun %s: %d orders, %d resolved, %d without candidates\n\n",
				result.Run.ID, result.Run.OrderCount, result.ResolvedOrders, result.UnresolvedOrders)

			for _, assignment := range result.Assignments {
				fmt.Printf("OS %s — %s — %s\n", assignment.OrderID,
					assignment.Date.Format("2006-01-02"), assignment.ClientTaxID)
				if len(assignment.Candidates) == 0 {
					fmt.Println("  (no eligible professional)")
					continue
				}
				for _, candidate := range assignment.Candidates {
					detail := ""
					if candidate.Detail != "" {
						detail = " (" + candidate.Detail + ")"
					}
					fmt.Printf("  %d. %s — %s%s\n",
						candidate.Rank, candidate.ProfessionalID, candidate.Criterion, detail)
				}
			}

			return nil
		},
	}

	cmd.Flags().Int("max-candidates", 0, "Override the configured candidate list size (1-30)")

	return cmd
}
