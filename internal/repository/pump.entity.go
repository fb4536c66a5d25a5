package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type PumpEntity struct {
	ID           int64           `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	Name         string          `db:"name"           gorm:"column:name;not null"`
	FuelType     string          `db:"fuel_type"      gorm:"column:fuel_type;not null"`
	Meter        decimal.Decimal `db:"meter"          gorm:"column:meter;type:decimal(18,4);not null;default:0"`
	LastUnitRate decimal.Decimal `db:"last_unit_rate" gorm:"column:last_unit_rate;type:decimal(18,4);not null;default:0"`
}

func (PumpEntity) TableName() string {
	return "pumps"
}

type ReadingEntity struct {
	ID            int64           `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	PumpID        int64           `db:"pump_id"        gorm:"column:pump_id;not null;index"`
	Pump          *PumpEntity     `gorm:"foreignKey:PumpID;references:ID"`
	Date          time.Time       `db:"date"           gorm:"column:date;type:date;not null;index"`
	PreviousMeter decimal.Decimal `db:"previous_meter" gorm:"column:previous_meter;type:decimal(18,4);not null"`
	CurrentMeter  decimal.Decimal `db:"current_meter"  gorm:"column:current_meter;type:decimal(18,4);not null"`
	UnitRate      decimal.Decimal `db:"unit_rate"      gorm:"column:unit_rate;type:decimal(18,4);not null"`
	Units         decimal.Decimal `db:"units"          gorm:"column:units;type:decimal(18,4);not null"`
	Revenue       decimal.Decimal `db:"revenue"        gorm:"column:revenue;type:decimal(18,4);not null"`
}

func (ReadingEntity) TableName() string {
	return "pump_readings"
}

func toPumpModel(e *PumpEntity) *model.Pump {
	if e == nil {
		return nil
	}
	return &model.Pump{
		ID:           e.ID,
		Name:         e.Name,
		FuelType:     model.FuelType(e.FuelType),
		Meter:        e.Meter,
		LastUnitRate: e.LastUnitRate,
	}
}

func toReadingEntity(m *model.Reading) *ReadingEntity {
	if m == nil {
		return nil
	}
	return &ReadingEntity{
		ID:            m.ID,
		PumpID:        m.PumpID,
		Date:          m.Date,
		PreviousMeter: m.PreviousMeter,
		CurrentMeter:  m.CurrentMeter,
		UnitRate:      m.UnitRate,
		Units:         m.Units,
		Revenue:       m.Revenue,
	}
}

func toReadingModel(e *ReadingEntity) *model.Reading {
	if e == nil {
		return nil
	}
	return &model.Reading{
		ID:            e.ID,
		PumpID:        e.PumpID,
		Date:          e.Date,
		PreviousMeter: e.PreviousMeter,
		CurrentMeter:  e.CurrentMeter,
		UnitRate:      e.UnitRate,
		Units:         e.Units,
		Revenue:       e.Revenue,
	}
}
