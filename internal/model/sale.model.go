package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the event emitted for every accepted reading entry. It is the
// source of truth for revenue reporting and the sold side of stock.
type Sale struct {
	ID       int64           `json:"id"`
	PumpID   int64           `json:"pump_id"`
	FuelType FuelType        `json:"fuel_type"`
	Date     time.Time       `json:"date"`
	Units    decimal.Decimal `json:"units"`
	UnitRate decimal.Decimal `json:"unit_rate"`
	Revenue  decimal.Decimal `json:"revenue"`
}
