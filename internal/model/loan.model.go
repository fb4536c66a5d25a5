package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
)

// Loan is a credit extension to a person for a fuel quantity at a given
// rate. Immutable once created except by deletion.
type Loan struct {
	ID       int64           `json:"id"`
	PersonID int64           `json:"person_id"`
	Date     time.Time       `json:"date"`
	FuelType FuelType        `json:"fuel_type"`
	Units    decimal.Decimal `json:"units"`
	UnitRate decimal.Decimal `json:"unit_rate"`
	Amount   decimal.Decimal `json:"amount"` // units * unit_rate
}

// LoanCreateRequest is the input for extending credit.
type LoanCreateRequest struct {
	PersonID int64
	Date     time.Time
	FuelType FuelType
	Units    decimal.Decimal
	UnitRate decimal.Decimal
}

func (p LoanCreateRequest) Validate() error {
	if p.PersonID <= 0 {
		return apperr.Validation("person_id", "is required")
	}
	if p.Date.IsZero() {
		return apperr.Validation("date", "is required")
	}
	if !p.FuelType.Valid() {
		return apperr.Validation("fuel_type", "must be petrol or diesel")
	}
	if !p.Units.IsPositive() {
		return apperr.Validation("units", "must be positive")
	}
	if !p.UnitRate.IsPositive() {
		return apperr.Validation("unit_rate", "must be positive")
	}
	return nil
}

// Amount derives the loan value from the requested quantity and rate.
func (p LoanCreateRequest) Amount() decimal.Decimal {
	return p.Units.Mul(p.UnitRate)
}
