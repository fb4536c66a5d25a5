package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type SaleEntity struct {
	ID       int64           `db:"id"        gorm:"primaryKey;autoIncrement;column:id"`
	PumpID   int64           `db:"pump_id"   gorm:"column:pump_id;not null;index"`
	FuelType string          `db:"fuel_type" gorm:"column:fuel_type;not null;index"`
	Date     time.Time       `db:"date"      gorm:"column:date;type:date;not null;index"`
	Units    decimal.Decimal `db:"units"     gorm:"column:units;type:decimal(18,4);not null"`
	UnitRate decimal.Decimal `db:"unit_rate" gorm:"column:unit_rate;type:decimal(18,4);not null"`
	Revenue  decimal.Decimal `db:"revenue"   gorm:"column:revenue;type:decimal(18,4);not null"`
}

func (SaleEntity) TableName() string {
	return "sales"
}

func toSaleEntity(m *model.Sale) *SaleEntity {
	if m == nil {
		return nil
	}
	return &SaleEntity{
		ID:       m.ID,
		PumpID:   m.PumpID,
		FuelType: string(m.FuelType),
		Date:     m.Date,
		Units:    m.Units,
		UnitRate: m.UnitRate,
		Revenue:  m.Revenue,
	}
}

func toSaleModel(e *SaleEntity) *model.Sale {
	if e == nil {
		return nil
	}
	return &model.Sale{
		ID:       e.ID,
		PumpID:   e.PumpID,
		FuelType: model.FuelType(e.FuelType),
		Date:     e.Date,
		Units:    e.Units,
		UnitRate: e.UnitRate,
		Revenue:  e.Revenue,
	}
}
