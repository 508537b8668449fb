package redisprices_test

import (
	"testing"

	"coffeerange/internal/repository/redisprices"
	"coffeerange/testing/ledgertest"
	"coffeerange/testing/suite"
)

func Test_Repository(t *testing.T) {
	ctx, st := suite.New(t, suite.WithRedis())

	ledgertest.Run(t, ctx, redisprices.NewRepository(st.GetRedis().Client, "test"))
}
