package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type SaleRepository struct {
	*pg.DB
}

func NewSaleRepository(db *pg.DB) *SaleRepository {
	return &SaleRepository{
		db,
	}
}

func (r *SaleRepository) Create(ctx context.Context, sale *model.Sale) (*model.Sale, error) {
	entity := toSaleEntity(sale)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toSaleModel(entity), nil
}

// RevenueByFuel sums units and revenue per fuel type over [from, to].
// Nil bounds mean unbounded.
func (r *SaleRepository) RevenueByFuel(ctx context.Context, from, to *time.Time) (map[model.FuelType]model.FuelRevenue, error) {
	q := r.Read(ctx).
		Model(&SaleEntity{}).
		Select("fuel_type, COALESCE(SUM(units), 0) AS units, COALESCE(SUM(revenue), 0) AS revenue").
		Group("fuel_type")
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}

	var rows []struct {
		FuelType string
		Units    decimal.Decimal
		Revenue  decimal.Decimal
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[model.FuelType]model.FuelRevenue, len(rows))
	for _, row := range rows {
		out[model.FuelType(row.FuelType)] = model.FuelRevenue{
			Units:   row.Units,
			Revenue: row.Revenue,
		}
	}
	return out, nil
}

// Series returns one point per reading date for a fuel, ascending. No
// gap filling: a day without readings has no point.
func (r *SaleRepository) Series(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error) {
	var rows []struct {
		Date    time.Time
		Units   decimal.Decimal
		Revenue decimal.Decimal
	}
	err := r.Read(ctx).
		Model(&SaleEntity{}).
		Select("date, COALESCE(SUM(units), 0) AS units, COALESCE(SUM(revenue), 0) AS revenue").
		Where("fuel_type = ?", string(fuel)).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.SeriesPoint, len(rows))
	for i, row := range rows {
		out[i] = model.SeriesPoint{
			Date:    model.Day(row.Date),
			Units:   row.Units,
			Revenue: row.Revenue,
		}
	}
	return out, nil
}

// SeriesByRate splits each date by the unit rate in force, for periods
// where the rate changed mid-day.
func (r *SaleRepository) SeriesByRate(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error) {
	var rows []struct {
		Date     time.Time
		UnitRate decimal.Decimal
		Units    decimal.Decimal
		Revenue  decimal.Decimal
	}
	err := r.Read(ctx).
		Model(&SaleEntity{}).
		Select("date, unit_rate, COALESCE(SUM(units), 0) AS units, COALESCE(SUM(revenue), 0) AS revenue").
		Where("fuel_type = ?", string(fuel)).
		Group("date").
		Group("unit_rate").
		Order("date ASC, unit_rate ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.SeriesPoint, len(rows))
	for i, row := range rows {
		out[i] = model.SeriesPoint{
			Date:     model.Day(row.Date),
			UnitRate: row.UnitRate,
			Units:    row.Units,
			Revenue:  row.Revenue,
		}
	}
	return out, nil
}

// SumUnits totals sold units for a fuel, optionally from a date onward.
func (r *SaleRepository) SumUnits(ctx context.Context, fuel model.FuelType, from *time.Time) (decimal.Decimal, error) {
	q := r.Read(ctx).
		Model(&SaleEntity{}).
		Select("COALESCE(SUM(units), 0) AS total").
		Where("fuel_type = ?", string(fuel))
	if from != nil {
		q = q.Where("date >= ?", *from)
	}

	var row struct {
		Total decimal.Decimal
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
