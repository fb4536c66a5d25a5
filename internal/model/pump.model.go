package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
)

// Pump is one physical dispenser. Meter is the cumulative lifetime
// dispensed volume and never decreases.
type Pump struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	FuelType     FuelType        `json:"fuel_type"`
	Meter        decimal.Decimal `json:"meter"`
	LastUnitRate decimal.Decimal `json:"last_unit_rate"`
}

// Reading is one accepted meter submission for a pump. Units and
// Revenue are derived at acceptance time and stored with the row.
type Reading struct {
	ID            int64           `json:"id"`
	PumpID        int64           `json:"pump_id"`
	Date          time.Time       `json:"date"`
	PreviousMeter decimal.Decimal `json:"previous_meter"`
	CurrentMeter  decimal.Decimal `json:"current_meter"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	Units         decimal.Decimal `json:"units"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// ReadingEntry is one element of a submitted batch.
type ReadingEntry struct {
	PumpID        int64
	PreviousMeter decimal.Decimal
	CurrentMeter  decimal.Decimal
	UnitRate      decimal.Decimal
}

func (e ReadingEntry) Validate() error {
	if e.PumpID <= 0 {
		return apperr.Validation("pump_id", "is required")
	}
	if e.PreviousMeter.IsNegative() {
		return apperr.Validation("previous_meter", "must not be negative")
	}
	if e.CurrentMeter.LessThan(e.PreviousMeter) {
		return apperr.Validation("current_meter", "meter cannot run backward")
	}
	if !e.UnitRate.IsPositive() {
		return apperr.Validation("unit_rate", "must be positive")
	}
	return nil
}

// UnitsSold is the sales volume this entry accounts for.
func (e ReadingEntry) UnitsSold() decimal.Decimal {
	return e.CurrentMeter.Sub(e.PreviousMeter)
}

// ReadingResult is the per-pump outcome of an accepted batch.
type ReadingResult struct {
	PumpID    int64           `json:"pump_id"`
	UnitsSold decimal.Decimal `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// PumpMeter is one row of the latest-meters listing used to prefill the
// reading entry form.
type PumpMeter struct {
	PumpID        int64           `json:"pump_id"`
	PumpName      string          `json:"pump_name"`
	FuelType      FuelType        `json:"fuel_type"`
	PreviousMeter decimal.Decimal `json:"previous_meter"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
}

// ReadingRow is one row of the flat readings listing, readings joined
// with their pump.
type ReadingRow struct {
	ID       int64           `json:"id"`
	Date     time.Time       `json:"date"`
	PumpName string          `json:"pump_name"`
	FuelType FuelType        `json:"fuel_type"`
	Units    decimal.Decimal `json:"units"`
	UnitRate decimal.Decimal `json:"unit_rate"`
	Amount   decimal.Decimal `json:"amount"`
	Meter    decimal.Decimal `json:"meter"`
}
