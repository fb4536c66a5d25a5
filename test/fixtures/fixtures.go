// Package fixtures holds ready-made domain values for the e2e suite.
package fixtures

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

var (
	Day1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	Day2 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	Day3 = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
)

var (
	PetrolRate = decimal.NewFromFloat(272.50)
	DieselRate = decimal.NewFromFloat(283.00)
)

func NewPersonRequest(name string) model.PersonCreateRequest {
	return model.PersonCreateRequest{
		Name:    name,
		Address: "Canal Rd",
		Phone:   "0300-0000000",
	}
}

func NewLoanRequest(personID int64, date time.Time, units int64) model.LoanCreateRequest {
	return model.LoanCreateRequest{
		PersonID: personID,
		Date:     date,
		FuelType: model.FuelPetrol,
		Units:    decimal.NewFromInt(units),
		UnitRate: PetrolRate,
	}
}

func NewPaymentRequest(personID int64, date time.Time, amount int64) model.PaymentCreateRequest {
	return model.PaymentCreateRequest{
		PaidBy: personID,
		Date:   date,
		Amount: decimal.NewFromInt(amount),
	}
}

func NewReadingEntry(pumpID int64, previous, current int64, rate decimal.Decimal) model.ReadingEntry {
	return model.ReadingEntry{
		PumpID:        pumpID,
		PreviousMeter: decimal.NewFromInt(previous),
		CurrentMeter:  decimal.NewFromInt(current),
		UnitRate:      rate,
	}
}

func NewPurchaseRequest(date time.Time, fuel model.FuelType, units int64) model.PurchaseCreateRequest {
	return model.PurchaseCreateRequest{
		Date:              date,
		FuelType:          fuel,
		Units:             decimal.NewFromInt(units),
		BuyingRatePerUnit: decimal.NewFromFloat(265.00),
	}
}
