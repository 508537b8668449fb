package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"coffeerange/internal/model"
)

func Test_CategoryOf(t *testing.T) {
	cases := map[string]model.Category{
		"LUBPAA1": model.CategoryLUBPAA,
		"LWBP4":   model.CategoryLWBP,
		"LWSD3":   model.CategoryLWSD,
		"LWYC2":   model.CategoryLWYC,
		"GUJI1":   model.CategoryOther,
		"":        model.CategoryOther,
	}

	for grade, expected := range cases {
		require.Equal(t, expected, model.CategoryOf(grade), grade)
	}

	require.Equal(t, "Semi-Dry Arabica", model.CategoryLWSD.Name())
	require.Equal(t, "Other coffee grades", model.CategoryOther.Description())
}

func Test_DerivedRange_StatusText(t *testing.T) {
	require.Equal(t, "Current (±10%)", (&model.DerivedRange{Tier: model.TierCurrent}).StatusText())
	require.Equal(t, "Extended (±15%) - 10 days", (&model.DerivedRange{Tier: model.TierExtended, DaysWithoutSales: 10}).StatusText())
	require.Equal(t, "Critical (±15%) - 11 days", (&model.DerivedRange{Tier: model.TierCritical, DaysWithoutSales: 11}).StatusText())
	require.Equal(t, "red", model.TierCritical.Color())
}
