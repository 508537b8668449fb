package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"coffeerange/internal/usecases"
)

var (
	recordDate string
	recordBy   string
)

var recordCmd = &cobra.Command{
	Use:   "record GRADE=PRICE...",
	Short: "Record the closing prices of a day",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(recordDate)
		if err != nil {
			return err
		}

		operator, err := uuid.Parse(recordBy)
		if err != nil {
			return fmt.Errorf("parse --by: %w", err)
		}

		entries := make(map[string]decimal.Decimal, len(args))
		for _, arg := range args {
			grade, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected GRADE=PRICE, got %q", arg)
			}
			price, err := usecases.ParsePrice(value)
			if err != nil {
				return fmt.Errorf("grade %s: %w", grade, err)
			}
			entries[grade] = price
		}

		a := mustNewApp(cmd.Context(), nil, nil)
		defer a.close()

		result, err := a.record.RecordDay(cmd.Context(), date, entries, operator)
		if err != nil {
			return fmt.Errorf("record day: %w", err)
		}

		for _, price := range result.Recorded {
			fmt.Printf("recorded %s %s %s\n", price.Grade, price.Date.Format(dateLayout), price.Price.StringFixed(2))
		}
		for grade, err := range result.Failed {
			fmt.Printf("failed %s: %v\n", grade, err)
		}
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d of %d prices failed", len(result.Failed), len(entries))
		}
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordDate, "date", "", "trading date, YYYY-MM-DD (default today)")
	recordCmd.Flags().StringVar(&recordBy, "by", "", "operator id (uuid)")
	_ = recordCmd.MarkFlagRequired("by")
}
