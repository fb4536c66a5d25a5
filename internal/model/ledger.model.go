package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryKind tags a merged ledger row as a loan or a payment.
type LedgerEntryKind string

const (
	EntryLoan    LedgerEntryKind = "loan"
	EntryPayment LedgerEntryKind = "payment"
)

// kindPriority orders loans before payments on equal dates. Lower wins.
func (k LedgerEntryKind) priority() int {
	if k == EntryLoan {
		return 0
	}
	return 1
}

// LedgerEntry is one row of the merged chronological view over a
// person's loans and payments.
type LedgerEntry struct {
	Kind     LedgerEntryKind `json:"kind"`
	ID       int64           `json:"id"`
	Date     time.Time       `json:"date"`
	FuelType FuelType        `json:"fuel_type,omitempty"`
	Units    decimal.Decimal `json:"units"`
	UnitRate decimal.Decimal `json:"unit_rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// LedgerTotals are the person's aggregate figures. Net is always
// Loan - Paid; it is recomputed from the event rows, never cached.
type LedgerTotals struct {
	Loan decimal.Decimal `json:"loan"`
	Paid decimal.Decimal `json:"paid"`
	Net  decimal.Decimal `json:"net"`
}

// PersonLedger is the full per-person view: raw loans and payments plus
// totals and the merged ordering.
type PersonLedger struct {
	Person   Person        `json:"person"`
	Loans    []Loan        `json:"loans"`
	Payments []Payment     `json:"payments"`
	Entries  []LedgerEntry `json:"entries"`
	Totals   LedgerTotals  `json:"totals"`
}

// MergeEntries combines loans and payments into one sequence ordered by
// the composite key (date desc, loans before payments, id desc). The
// ordering is a total order, deterministic regardless of input order.
func MergeEntries(loans []Loan, payments []Payment) []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(loans)+len(payments))
	for _, l := range loans {
		entries = append(entries, LedgerEntry{
			Kind:     EntryLoan,
			ID:       l.ID,
			Date:     l.Date,
			FuelType: l.FuelType,
			Units:    l.Units,
			UnitRate: l.UnitRate,
			Amount:   l.Amount,
		})
	}
	for _, p := range payments {
		entries = append(entries, LedgerEntry{
			Kind:   EntryPayment,
			ID:     p.ID,
			Date:   p.Date,
			Amount: p.Amount,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Kind != b.Kind {
			return a.Kind.priority() < b.Kind.priority()
		}
		return a.ID > b.ID
	})
	return entries
}
