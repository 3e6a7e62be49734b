package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vavive/rotas/pkg/core/services"
)

// ExpandPlansCmd creates the expandPlans command
func ExpandPlansCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expandPlans",
		Short: "Preview the orders the configured recurring plans would generate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			fromStr, _ := cmd.Flags().GetString("from")

			from := time.Now()
			if fromStr != "" {
				parsed, err := time.Parse("2006-01-02", fromStr)
				if err != nil {
					return fmt.Errorf("failed to parse --from date: %w", err)
				}
				from = parsed
			}

			orders, err := services.ExpandPlans(app.Logger, app.Cfg.Plans, from, days)
			if err != nil {
				return fmt.Errorf("failed to expand plans: %w", err)
			}

			fmt.Printf("\n%d forecast orders over %d days:\n\n", len(orders), days)
			for _, order := range orders {
				entry := order.EntryTime
				if entry == "" {
					entry = "--:--"
				}
				fmt.Printf("- %s %s — client %s — %s (%.1fh)\n",
					order.Day(), entry, order.ClientTaxID, order.Plan, order.DurationHours)
			}

			return nil
		},
	}

	cmd.Flags().Int("days", 30, "Horizon in days")
	cmd.Flags().String("from", "", "Horizon start date (YYYY-MM-DD, default today)")

	return cmd
}
