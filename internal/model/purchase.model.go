package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
)

// Purchase is one fuel delivery (buying record). TotalUnits is the
// per-fuel cumulative of purchased units up to and including this row,
// fixed at insert time.
type Purchase struct {
	ID                int64           `json:"id"`
	Date              time.Time       `json:"date"`
	FuelType          FuelType        `json:"fuel_type"`
	Units             decimal.Decimal `json:"units"`
	BuyingRatePerUnit decimal.Decimal `json:"buying_rate_per_unit"`
	TotalUnits        decimal.Decimal `json:"total_units"`
}

type PurchaseCreateRequest struct {
	Date              time.Time
	FuelType          FuelType
	Units             decimal.Decimal
	BuyingRatePerUnit decimal.Decimal
}

func (p PurchaseCreateRequest) Validate() error {
	if p.Date.IsZero() {
		return apperr.Validation("date", "is required")
	}
	if !p.FuelType.Valid() {
		return apperr.Validation("fuel_type", "must be petrol or diesel")
	}
	if !p.Units.IsPositive() {
		return apperr.Validation("units", "must be positive")
	}
	if !p.BuyingRatePerUnit.IsPositive() {
		return apperr.Validation("buying_rate_per_unit", "must be positive")
	}
	return nil
}

// StockLevel is the cached per-fuel inventory counters. The net level
// is always derivable from purchases and sales; the cached row exists
// so reads stay cheap and is cross-checked on every read.
type StockLevel struct {
	FuelType  FuelType        `json:"fuel_type"`
	Purchased decimal.Decimal `json:"purchased"`
	Sold      decimal.Decimal `json:"sold"`
}

// Net may be negative; a negative level indicates a data-entry
// discrepancy and is surfaced, never rejected.
func (s StockLevel) Net() decimal.Decimal {
	return s.Purchased.Sub(s.Sold)
}
