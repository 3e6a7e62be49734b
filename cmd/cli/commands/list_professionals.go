package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vavive/rotas/pkg/clients/sheetsclient"
	"github.com/vavive/rotas/pkg/core/services"
)

// ListProfessionalsCmd creates the listProfessionals command
func ListProfessionalsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listProfessionals",
		Short: "List the professionals the scheduler can draw from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := app.SheetsClient.GetValues(app.Cfg.WorkbookSheetID, app.Cfg.ProfessionalsTab)
			if err != nil {
				return fmt.Errorf("failed to read professionals tab: %w", err)
			}

			professionals, err := sheetsclient.ParseProfessionals(values)
			if err != nil {
				return fmt.Errorf("failed to parse professionals: %w", err)
			}

			roster := services.ListProfessionals(app.Logger, professionals)

			fmt.Printf("\n%d schedulable professionals (%d inactive, %d without coordinates):\n\n",
				len(roster.Eligible), roster.Inactive, roster.Unlocatable)
			for _, p := range roster.Eligible {
				fmt.Printf("- %s (%s) - %s\n", p.Name, p.ID, p.Phone)
			}

			return nil
		},
	}
}
