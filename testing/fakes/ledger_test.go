package fakes_test

import (
	"context"
	"testing"

	"coffeerange/testing/fakes"
	"coffeerange/testing/ledgertest"
)

func Test_Ledger(t *testing.T) {
	ledgertest.Run(t, context.Background(), fakes.NewLedger())
}
