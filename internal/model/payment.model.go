package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
)

// Payment is a repayment recorded against a person's credit balance.
// Immutable once created except by deletion.
type Payment struct {
	ID     int64           `json:"id"`
	PaidBy int64           `json:"paid_by"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentCreateRequest struct {
	PaidBy int64
	Date   time.Time
	Amount decimal.Decimal
}

func (p PaymentCreateRequest) Validate() error {
	if p.PaidBy <= 0 {
		return apperr.Validation("paid_by", "is required")
	}
	if p.Date.IsZero() {
		return apperr.Validation("date", "is required")
	}
	if !p.Amount.IsPositive() {
		return apperr.Validation("amount", "must be positive")
	}
	return nil
}
