// Package gateway serializes mutations. Every write passes through a
// keyed lock table so work on one person, pump or fuel proceeds one at
// a time while unrelated work runs in parallel. Reads bypass the
// gateway entirely.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/internal/services"
	"github.com/sarmadgill/pump-ledger/pkg/keymutex"
	"github.com/sarmadgill/pump-ledger/pkg/prom"
)

type Gateway struct {
	locks   *keymutex.KeyedMutex
	ledger  *services.LedgerService
	meter   *services.MeterService
	stock   *services.StockService
	tyre    *services.TyreService
	reports *services.ReportService
}

func New(ledger *services.LedgerService, meter *services.MeterService, stock *services.StockService, tyre *services.TyreService, reports *services.ReportService) *Gateway {
	return &Gateway{
		locks:   keymutex.New(),
		ledger:  ledger,
		meter:   meter,
		stock:   stock,
		tyre:    tyre,
		reports: reports,
	}
}

func personKey(id int64) string { return fmt.Sprintf("person:%d", id) }
func pumpKey(id int64) string   { return fmt.Sprintf("pump:%d", id) }
func tyreKey(id int64) string   { return fmt.Sprintf("tyre:%d", id) }

func stockKey(fuel model.FuelType) string { return "stock:" + string(fuel) }

// mutate runs fn holding keys. The critical section is detached from
// the caller's cancellation: once the locks are held the mutation runs
// to completion even if the client goes away.
func (g *Gateway) mutate(ctx context.Context, op string, keys []string, fn func(ctx context.Context) error) error {
	release, err := g.locks.Lock(ctx, keys...)
	if err != nil {
		prom.IncCounter(prom.MetricMutationsTotal, op, "lock_cancelled")
		return err
	}
	defer release()

	start := time.Now()
	err = fn(context.WithoutCancel(ctx))
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	prom.IncCounter(prom.MetricMutationsTotal, op, outcome)
	prom.ObserveHistogram(prom.MetricMutationDurationSeconds, time.Since(start).Seconds(), op)
	return err
}

// CreatePerson needs no lock: a new person cannot contend with anyone.
func (g *Gateway) CreatePerson(ctx context.Context, req model.PersonCreateRequest) (*model.Person, error) {
	return g.ledger.CreatePerson(ctx, req)
}

func (g *Gateway) AddLoan(ctx context.Context, req model.LoanCreateRequest) (*model.Loan, error) {
	var out *model.Loan
	err := g.mutate(ctx, "add_loan", []string{personKey(req.PersonID)}, func(ctx context.Context) error {
		loan, err := g.ledger.AddLoan(ctx, req)
		out = loan
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) AddPayment(ctx context.Context, req model.PaymentCreateRequest) (*model.Payment, error) {
	var out *model.Payment
	err := g.mutate(ctx, "add_payment", []string{personKey(req.PaidBy)}, func(ctx context.Context) error {
		payment, err := g.ledger.AddPayment(ctx, req)
		out = payment
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteLoan resolves the owner first to know which key to hold, then
// re-reads under the lock so a concurrent delete is still caught.
func (g *Gateway) DeleteLoan(ctx context.Context, id int64) (*model.LedgerTotals, error) {
	owner, err := g.ledger.LoanOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	var out *model.LedgerTotals
	err = g.mutate(ctx, "delete_loan", []string{personKey(owner)}, func(ctx context.Context) error {
		totals, err := g.ledger.DeleteLoan(ctx, id)
		out = totals
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) DeletePayment(ctx context.Context, id int64) (*model.LedgerTotals, error) {
	owner, err := g.ledger.PaymentOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	var out *model.LedgerTotals
	err = g.mutate(ctx, "delete_payment", []string{personKey(owner)}, func(ctx context.Context) error {
		totals, err := g.ledger.DeletePayment(ctx, id)
		out = totals
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitReadings holds every touched pump plus both fuel stock keys.
// The fuel of each pump is only known after the locked lookup, so both
// stock keys are taken up front; readings are rare enough that the
// extra width does not matter.
func (g *Gateway) SubmitReadings(ctx context.Context, date time.Time, entries []model.ReadingEntry) ([]model.ReadingResult, error) {
	keys := make([]string, 0, len(entries)+2)
	for _, e := range entries {
		keys = append(keys, pumpKey(e.PumpID))
	}
	for _, fuel := range model.FuelTypes() {
		keys = append(keys, stockKey(fuel))
	}

	var out []model.ReadingResult
	err := g.mutate(ctx, "submit_readings", keys, func(ctx context.Context) error {
		results, err := g.meter.SubmitReadings(ctx, date, entries)
		if err != nil {
			return err
		}
		out = results
		g.reports.Invalidate()
		return nil
	})
	if err != nil {
		switch {
		case apperr.IsConflict(err):
			prom.IncCounter(prom.MetricReadingsTotal, "conflict")
		case apperr.IsValidation(err):
			prom.IncCounter(prom.MetricReadingsTotal, "rejected")
		}
		return nil, err
	}
	prom.IncCounter(prom.MetricReadingsTotal, "accepted")
	g.reports.Prewarm()
	return out, nil
}

func (g *Gateway) RecordPurchase(ctx context.Context, req model.PurchaseCreateRequest) (*model.Purchase, error) {
	var out *model.Purchase
	err := g.mutate(ctx, "record_purchase", []string{stockKey(req.FuelType)}, func(ctx context.Context) error {
		purchase, err := g.stock.RecordPurchase(ctx, req)
		if err != nil {
			return err
		}
		out = purchase
		g.reports.Invalidate()
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.reports.Prewarm()
	return out, nil
}

func (g *Gateway) RecordTyreSale(ctx context.Context, req model.TyreSaleRequest) (*model.Tyre, error) {
	var out *model.Tyre
	err := g.mutate(ctx, "tyre_sale", []string{tyreKey(req.TyreID)}, func(ctx context.Context) error {
		tyre, err := g.tyre.RecordSale(ctx, req)
		out = tyre
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
