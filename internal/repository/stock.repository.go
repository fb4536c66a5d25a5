package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

// StockRepository maintains the cached per-fuel counters. The counters
// are only ever moved inside the same transaction as the purchase or
// reading that justifies the movement.
type StockRepository struct {
	*pg.DB
}

func NewStockRepository(db *pg.DB) *StockRepository {
	return &StockRepository{
		db,
	}
}

func (r *StockRepository) Get(ctx context.Context, fuel model.FuelType) (*model.StockLevel, error) {
	var entity StockLevelEntity
	err := r.Read(ctx).Where("fuel_type = ?", string(fuel)).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// no movements yet for this fuel
			return &model.StockLevel{FuelType: fuel}, nil
		}
		return nil, err
	}
	return toStockLevelModel(&entity), nil
}

func (r *StockRepository) AddPurchased(ctx context.Context, fuel model.FuelType, units decimal.Decimal) error {
	return r.upsert(ctx, fuel, "purchased", units)
}

func (r *StockRepository) AddSold(ctx context.Context, fuel model.FuelType, units decimal.Decimal) error {
	return r.upsert(ctx, fuel, "sold", units)
}

func (r *StockRepository) upsert(ctx context.Context, fuel model.FuelType, column string, units decimal.Decimal) error {
	entity := StockLevelEntity{FuelType: string(fuel)}
	if column == "purchased" {
		entity.Purchased = units
	} else {
		entity.Sold = units
	}

	return r.Write(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "fuel_type"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				column: gorm.Expr(column+" + ?", units),
			}),
		}).
		Create(&entity).Error
}
