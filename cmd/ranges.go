package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"coffeerange/internal/usecases"
)

var (
	rangesAsOf string
	rangesJSON bool
)

var rangesCmd = &cobra.Command{
	Use:   "ranges [GRADE...]",
	Short: "Print the price ranges valid on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseDate(rangesAsOf)
		if err != nil {
			return err
		}

		a := mustNewApp(cmd.Context(), nil, nil)
		defer a.close()

		var report *usecases.RangeReport
		if len(args) == 0 {
			report, err = a.query.CurrentRanges(cmd.Context(), asOf)
		} else {
			report, err = a.query.CurrentRangesFor(cmd.Context(), args, asOf)
		}
		if err != nil {
			return fmt.Errorf("query ranges: %w", err)
		}

		if rangesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		return printReport(report)
	},
}

func init() {
	rangesCmd.Flags().StringVar(&rangesAsOf, "as-of", "", "date of the ranges, YYYY-MM-DD (default today)")
	rangesCmd.Flags().BoolVar(&rangesJSON, "json", false, "print the report as JSON")
}

func printReport(report *usecases.RangeReport) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "GRADE\tLOW\tHIGH\tSTATUS\n")
	for _, gr := range report.Ranges {
		lower, upper := gr.Bounds()
		status := "Fixed"
		if gr.Dynamic != nil {
			status = gr.Dynamic.StatusText()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", gr.Grade, lower.StringFixed(2), upper.StringFixed(2), status)
	}
	for _, gap := range report.Gaps {
		_, _ = fmt.Fprintf(w, "%s\t-\t-\t%s\n", gap.Grade, gap.Reason)
	}
	return w.Flush()
}
