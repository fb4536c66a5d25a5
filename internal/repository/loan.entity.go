package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type LoanEntity struct {
	ID       int64           `db:"id"        gorm:"primaryKey;autoIncrement;column:id"`
	PersonID int64           `db:"person_id" gorm:"column:person_id;not null;index"`
	Person   *PersonEntity   `gorm:"foreignKey:PersonID;references:ID;constraint:OnDelete:CASCADE"`
	Date     time.Time       `db:"date"      gorm:"column:date;type:date;not null"`
	FuelType string          `db:"fuel_type" gorm:"column:fuel_type;not null"`
	Units    decimal.Decimal `db:"units"     gorm:"column:units;type:decimal(18,4);not null"`
	UnitRate decimal.Decimal `db:"unit_rate" gorm:"column:unit_rate;type:decimal(18,4);not null"`
	Amount   decimal.Decimal `db:"amount"    gorm:"column:amount;type:decimal(18,4);not null"`
}

func (LoanEntity) TableName() string {
	return "loans"
}

func toLoanEntity(m *model.Loan) *LoanEntity {
	if m == nil {
		return nil
	}
	return &LoanEntity{
		ID:       m.ID,
		PersonID: m.PersonID,
		Date:     m.Date,
		FuelType: string(m.FuelType),
		Units:    m.Units,
		UnitRate: m.UnitRate,
		Amount:   m.Amount,
	}
}

func toLoanModel(e *LoanEntity) *model.Loan {
	if e == nil {
		return nil
	}
	return &model.Loan{
		ID:       e.ID,
		PersonID: e.PersonID,
		Date:     e.Date,
		FuelType: model.FuelType(e.FuelType),
		Units:    e.Units,
		UnitRate: e.UnitRate,
		Amount:   e.Amount,
	}
}

func toLoanModels(entities []*LoanEntity) []model.Loan {
	models := make([]model.Loan, len(entities))
	for i, e := range entities {
		models[i] = *toLoanModel(e)
	}
	return models
}
