package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
)

type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// PersonCreateRequest is the input for creating a person.
type PersonCreateRequest struct {
	Name    string
	Address string
	Phone   string
}

func (p PersonCreateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("name", "is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		return apperr.Validation("address", "is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return apperr.Validation("phone", "is required")
	}
	return nil
}

// PersonSummary is one row of the people listing: the person plus their
// outstanding net balance, computed fresh from their loans and payments.
type PersonSummary struct {
	Person
	NetTotal decimal.Decimal `json:"net_total"`
}
