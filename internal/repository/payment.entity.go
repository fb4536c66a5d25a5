package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type PaymentEntity struct {
	ID     int64           `db:"id"      gorm:"primaryKey;autoIncrement;column:id"`
	PaidBy int64           `db:"paid_by" gorm:"column:paid_by;not null;index"`
	Payer  *PersonEntity   `gorm:"foreignKey:PaidBy;references:ID;constraint:OnDelete:CASCADE"`
	Date   time.Time       `db:"date"    gorm:"column:date;type:date;not null"`
	Amount decimal.Decimal `db:"amount"  gorm:"column:amount;type:decimal(18,4);not null"`
}

func (PaymentEntity) TableName() string {
	return "payments"
}

func toPaymentEntity(m *model.Payment) *PaymentEntity {
	if m == nil {
		return nil
	}
	return &PaymentEntity{
		ID:     m.ID,
		PaidBy: m.PaidBy,
		Date:   m.Date,
		Amount: m.Amount,
	}
}

func toPaymentModel(e *PaymentEntity) *model.Payment {
	if e == nil {
		return nil
	}
	return &model.Payment{
		ID:     e.ID,
		PaidBy: e.PaidBy,
		Date:   e.Date,
		Amount: e.Amount,
	}
}

func toPaymentModels(entities []*PaymentEntity) []model.Payment {
	models := make([]model.Payment, len(entities))
	for i, e := range entities {
		models[i] = *toPaymentModel(e)
	}
	return models
}
