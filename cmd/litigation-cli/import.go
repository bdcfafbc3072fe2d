package main

import (
	"encoding/json"
	"fmt"
	"os"

	"litigation_dashboard_go/services"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var firmRef, instance, courtID string

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import decisions from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := a.scope(cmd.Context(), firmRef, instance)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			rows, err := services.ReadDecisionRows(file)
			if err != nil {
				return err
			}
			result, err := a.importer.Import(cmd.Context(), scope, rows, services.ImportOptions{CourtID: courtID})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if result.Errors > 0 {
				return fmt.Errorf("%d of %d rows rejected", result.Errors, len(rows))
			}
			return nil
		},
	}

	scopeFlags(cmd, &firmRef, &instance)
	cmd.Flags().StringVar(&courtID, "court", "", "Force every row into this court")
	return cmd
}
