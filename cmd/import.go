package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var importDate string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the exchange board closing prices of a day",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cnf.ECX.Enabled() {
			return errors.New("ecx board is not configured")
		}

		date, err := parseDate(importDate)
		if err != nil {
			return err
		}

		a := mustNewApp(cmd.Context(), nil, nil)
		defer a.close()

		summary, err := a.imports.ImportDay(cmd.Context(), date)
		if err != nil {
			return fmt.Errorf("import day: %w", err)
		}

		fmt.Printf("imported %d, skipped %d, failed %d\n", summary.Imported, summary.Skipped, summary.Failed)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importDate, "date", "", "trading date, YYYY-MM-DD (default today)")
}
