package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type PurchaseRepository struct {
	*pg.DB
}

func NewPurchaseRepository(db *pg.DB) *PurchaseRepository {
	return &PurchaseRepository{
		db,
	}
}

// Create inserts the delivery with its per-fuel running total. The
// caller serializes writes per fuel type, so reading the previous total
// and inserting the next row is race-free.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *model.Purchase) (*model.Purchase, error) {
	prev, err := r.lastTotal(ctx, purchase.FuelType)
	if err != nil {
		return nil, err
	}

	entity := toPurchaseEntity(purchase)
	entity.TotalUnits = prev.Add(purchase.Units)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toPurchaseModel(entity), nil
}

func (r *PurchaseRepository) lastTotal(ctx context.Context, fuel model.FuelType) (decimal.Decimal, error) {
	var entity PurchaseEntity
	err := r.Write(ctx).
		Where("fuel_type = ?", string(fuel)).
		Order("id DESC").
		Limit(1).
		Find(&entity).Error
	if err != nil {
		return decimal.Zero, err
	}
	return entity.TotalUnits, nil
}

func (r *PurchaseRepository) List(ctx context.Context) ([]model.Purchase, error) {
	var entities []*PurchaseEntity
	err := r.Read(ctx).
		Order("date DESC, id DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toPurchaseModels(entities), nil
}

// SumUnits totals purchased units for a fuel, optionally from a date
// onward. This is the recompute side of the stock consistency check.
func (r *PurchaseRepository) SumUnits(ctx context.Context, fuel model.FuelType, from *time.Time) (decimal.Decimal, error) {
	q := r.Read(ctx).
		Model(&PurchaseEntity{}).
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
