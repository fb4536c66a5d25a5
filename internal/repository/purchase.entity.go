package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

// PurchaseEntity keeps the original ledger book's table name.
type PurchaseEntity struct {
	ID                int64           `db:"id"                   gorm:"primaryKey;autoIncrement;column:id"`
	Date              time.Time       `db:"date"                 gorm:"column:date;type:date;not null"`
	FuelType          string          `db:"fuel_type"            gorm:"column:fuel_type;not null;index"`
	Units             decimal.Decimal `db:"units"                gorm:"column:units;type:decimal(18,4);not null"`
	BuyingRatePerUnit decimal.Decimal `db:"buying_rate_per_unit" gorm:"column:buying_rate_per_unit;type:decimal(18,4);not null"`
	TotalUnits        decimal.Decimal `db:"total_units"          gorm:"column:total_units;type:decimal(18,4);not null"`
}

func (PurchaseEntity) TableName() string {
	return "buying_unit_rate"
}

type StockLevelEntity struct {
	FuelType  string          `db:"fuel_type" gorm:"primaryKey;column:fuel_type"`
	Purchased decimal.Decimal `db:"purchased" gorm:"column:purchased;type:decimal(18,4);not null;default:0"`
	Sold      decimal.Decimal `db:"sold"      gorm:"column:sold;type:decimal(18,4);not null;default:0"`
}

func (StockLevelEntity) TableName() string {
	return "stock_levels"
}

func toPurchaseEntity(m *model.Purchase) *PurchaseEntity {
	if m == nil {
		return nil
	}
	return &PurchaseEntity{
		ID:                m.ID,
		Date:              m.Date,
		FuelType:          string(m.FuelType),
		Units:             m.Units,
		BuyingRatePerUnit: m.BuyingRatePerUnit,
		TotalUnits:        m.TotalUnits,
	}
}

func toPurchaseModel(e *PurchaseEntity) *model.Purchase {
	if e == nil {
		return nil
	}
	return &model.Purchase{
		ID:                e.ID,
		Date:              e.Date,
		FuelType:          model.FuelType(e.FuelType),
		Units:             e.Units,
		BuyingRatePerUnit: e.BuyingRatePerUnit,
		TotalUnits:        e.TotalUnits,
	}
}

func toPurchaseModels(entities []*PurchaseEntity) []model.Purchase {
	models := make([]model.Purchase, len(entities))
	for i, e := range entities {
		models[i] = *toPurchaseModel(e)
	}
	return models
}

func toStockLevelModel(e *StockLevelEntity) *model.StockLevel {
	if e == nil {
		return nil
	}
	return &model.StockLevel{
		FuelType:  model.FuelType(e.FuelType),
		Purchased: e.Purchased,
		Sold:      e.Sold,
	}
}
