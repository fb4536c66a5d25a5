package model

import (
	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
)

// Tyre is one line of the tyre side-inventory the site sells alongside
// fuel. Quantities are whole units.
type Tyre struct {
	ID             int64           `json:"id"`
	Name           string          `json:"tyre"`
	BuyingPrice    decimal.Decimal `json:"buying_price"`
	AvailableStock int64           `json:"available_stock"`
	SoldUnits      int64           `json:"sold_units"`
}

type TyreSaleRequest struct {
	TyreID    int64
	UnitsSold int64
}

func (p TyreSaleRequest) Validate() error {
	if p.TyreID <= 0 {
		return apperr.Validation("id", "is required")
	}
	if p.UnitsSold <= 0 {
		return apperr.Validation("units_sold", "must be positive")
	}
	return nil
}
