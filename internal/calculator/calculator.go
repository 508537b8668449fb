// Package calculator computes the value of a trade from a price per feresula.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"coffeerange/internal/apperrors"
)

var (
	// KilogramsPerFeresula is the weight of one feresula.
	KilogramsPerFeresula = decimal.NewFromInt(17)
	// FeresulasPerLot is the size of one exchange lot.
	FeresulasPerLot = decimal.NewFromInt(150)
	// Surcharge adds 15.5% to every total.
	Surcharge = decimal.RequireFromString("1.155")
)

// Request holds the inputs. WeightKg and Lots are optional, but at least one must be set.
type Request struct {
	PricePerFeresula decimal.Decimal  `json:"price_per_feresula"`
	WeightKg         *decimal.Decimal `json:"weight_kg,omitempty"`
	Lots             *decimal.Decimal `json:"lots,omitempty"`
}

type Result struct {
	ByWeight *decimal.Decimal `json:"by_weight,omitempty"`
	ByLot    *decimal.Decimal `json:"by_lot,omitempty"`
}

// ByWeight returns weightKg × (price / 17) × 1.155 rounded to 2 places.
func ByWeight(weightKg, pricePerFeresula decimal.Decimal) decimal.Decimal {
	return weightKg.Mul(pricePerFeresula).Mul(Surcharge).DivRound(KilogramsPerFeresula, 2)
}

// ByLot returns lots × 150 × price × 1.155 rounded to 2 places.
func ByLot(lots, pricePerFeresula decimal.Decimal) decimal.Decimal {
	return lots.Mul(FeresulasPerLot).Mul(pricePerFeresula).Mul(Surcharge).Round(2)
}

func Calculate(req Request) (*Result, error) {
	if !req.PricePerFeresula.IsPositive() {
		return nil, fmt.Errorf("price per feresula %s: %w", req.PricePerFeresula, apperrors.ErrInvalidPrice)
	}

	if req.WeightKg == nil && req.Lots == nil {
		return nil, fmt.Errorf("weight or lots required: %w", apperrors.ErrInvalidQuantity)
	}

	result := &Result{}

	if req.WeightKg != nil {
		if !req.WeightKg.IsPositive() {
			return nil, fmt.Errorf("weight %s: %w", req.WeightKg, apperrors.ErrInvalidQuantity)
		}
		total := ByWeight(*req.WeightKg, req.PricePerFeresula)
		result.ByWeight = &total
	}

	if req.Lots != nil {
		if !req.Lots.IsPositive() {
			return nil, fmt.Errorf("lots %s: %w", req.Lots, apperrors.ErrInvalidQuantity)
		}
		total := ByLot(*req.Lots, req.PricePerFeresula)
		result.ByLot = &total
	}

	return result, nil
}
