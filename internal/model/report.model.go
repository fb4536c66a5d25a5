package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FuelRevenue is the per-fuel slice of a revenue report.
type FuelRevenue struct {
	Units   decimal.Decimal `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueReport sums sale events by fuel type over some window.
type RevenueReport struct {
	Petrol FuelRevenue     `json:"petrol"`
	Diesel FuelRevenue     `json:"diesel"`
	Total  decimal.Decimal `json:"total"`
}

// SeriesPoint is one reading period of the per-fuel units series,
// ordered ascending by date. TotalRevenue is the running cumulative and
// only populated by the running-total variant.
type SeriesPoint struct {
	Date         time.Time       `json:"date"`
	Units        decimal.Decimal `json:"units"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	Revenue      decimal.Decimal `json:"revenue"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Summary is the dashboard headline block: lifetime revenue split by
// fuel plus the 7-day shortfall figure, units sold in excess of units
// purchased over the last seven days.
type Summary struct {
	Total  decimal.Decimal `json:"total"`
	Petrol decimal.Decimal `json:"petrol"`
	Diesel decimal.Decimal `json:"diesel"`
	Loss7  decimal.Decimal `json:"loss7"`
}
