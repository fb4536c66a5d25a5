package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
)

// LedgerGateway is the write side, served through the mutation gateway.
type LedgerGateway interface {
	CreatePerson(ctx context.Context, req model.PersonCreateRequest) (*model.Person, error)
	AddLoan(ctx context.Context, req model.LoanCreateRequest) (*model.Loan, error)
	AddPayment(ctx context.Context, req model.PaymentCreateRequest) (*model.Payment, error)
	DeleteLoan(ctx context.Context, id int64) (*model.LedgerTotals, error)
	DeletePayment(ctx context.Context, id int64) (*model.LedgerTotals, error)
}

// LedgerReader is the read side, served straight from the service.
type LedgerReader interface {
	GetPersonLedger(ctx context.Context, personID int64) (*model.PersonLedger, error)
	ListPeople(ctx context.Context) ([]model.PersonSummary, error)
}

type LedgerHandler struct {
	gw     LedgerGateway
	reader LedgerReader
}

func NewLedgerHandler(gw LedgerGateway, reader LedgerReader) *LedgerHandler {
	return &LedgerHandler{gw: gw, reader: reader}
}

func RegisterLedgerRoutes(r *xhttp.Router, h *LedgerHandler) {
	r.POST("/persons", h.CreatePerson)
	r.POST("/loans", h.CreateLoan)
	r.DELETE("/loans/{id}", h.DeleteLoan)
	r.POST("/payments", h.CreatePayment)
	r.DELETE("/payments/{id}", h.DeletePayment)
	r.GET("/loans/person/{id}", h.GetPersonLedger)
	r.GET("/loans/people", h.ListPeople)
}

type createPersonRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type createLoanRequest struct {
	PersonID int64           `json:"person_id"`
	Date     string          `json:"date"`
	FuelType string          `json:"fuel_type"`
	Units    decimal.Decimal `json:"units"`
	UnitRate decimal.Decimal `json:"unit_rate"`
}

type createPaymentRequest struct {
	PaidBy int64           `json:"paid_by"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type loanResponse struct {
	ID       int64   `json:"id"`
	PersonID int64   `json:"person_id"`
	Date     string  `json:"date"`
	FuelType string  `json:"fuel_type"`
	Units    float64 `json:"units"`
	UnitRate float64 `json:"unit_rate"`
	Amount   float64 `json:"amount"`
}

type paymentResponse struct {
	ID     int64   `json:"id"`
	PaidBy int64   `json:"paid_by"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type totalsResponse struct {
	Loan float64 `json:"loan"`
	Paid float64 `json:"paid"`
	Net  float64 `json:"net"`
}

type ledgerEntryResponse struct {
	Kind     string  `json:"kind"`
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	FuelType string  `json:"fuel_type,omitempty"`
	Units    float64 `json:"units,omitempty"`
	UnitRate float64 `json:"unit_rate,omitempty"`
	Amount   float64 `json:"amount"`
}

type personLedgerResponse struct {
	Person   model.Person          `json:"person"`
	Loans    []loanResponse        `json:"loans"`
	Payments []paymentResponse     `json:"payments"`
	Entries  []ledgerEntryResponse `json:"entries"`
	Totals   totalsResponse        `json:"totals"`
}

type personSummaryResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	NetTotal float64 `json:"net_total"`
}

func toTotalsResponse(t model.LedgerTotals) totalsResponse {
	return totalsResponse{
		Loan: money(t.Loan),
		Paid: money(t.Paid),
		Net:  money(t.Net),
	}
}

func toLoanResponse(l *model.Loan) loanResponse {
	return loanResponse{
		ID:       l.ID,
		PersonID: l.PersonID,
		Date:     dateStr(l.Date),
		FuelType: string(l.FuelType),
		Units:    money(l.Units),
		UnitRate: money(l.UnitRate),
		Amount:   money(l.Amount),
	}
}

func (h *LedgerHandler) CreatePerson(ctx *xhttp.RequestCtx) {
	var req createPersonRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	person, err := h.gw.CreatePerson(ctx, model.PersonCreateRequest{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, person)
}

func (h *LedgerHandler) CreateLoan(ctx *xhttp.RequestCtx) {
	var req createLoanRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(ctx, xhttp.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}
	loan, err := h.gw.AddLoan(ctx, model.LoanCreateRequest{
		PersonID: req.PersonID,
		Date:     date,
		FuelType: model.FuelType(req.FuelType),
		Units:    req.Units,
		UnitRate: req.UnitRate,
	})
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toLoanResponse(loan))
}

func (h *LedgerHandler) CreatePayment(ctx *xhttp.RequestCtx) {
	var req createPaymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(ctx, xhttp.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}
	payment, err := h.gw.AddPayment(ctx, model.PaymentCreateRequest{
		PaidBy: req.PaidBy,
		Date:   date,
		Amount: req.Amount,
	})
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, paymentResponse{
		ID:     payment.ID,
		PaidBy: payment.PaidBy,
		Date:   dateStr(payment.Date),
		Amount: money(payment.Amount),
	})
}

func (h *LedgerHandler) DeleteLoan(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid id")
		return
	}
	// The recomputed totals are discarded here; the contract is a bare
	// 204 once the balance is settled.
	if _, err := h.gw.DeleteLoan(ctx, id); err != nil {
		writeDomainError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *LedgerHandler) DeletePayment(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid id")
		return
	}
	if _, err := h.gw.DeletePayment(ctx, id); err != nil {
		writeDomainError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *LedgerHandler) GetPersonLedger(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid id")
		return
	}
	ledger, err := h.reader.GetPersonLedger(ctx, id)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}

	loans := make([]loanResponse, len(ledger.Loans))
	for i := range ledger.Loans {
		loans[i] = toLoanResponse(&ledger.Loans[i])
	}
	payments := make([]paymentResponse, len(ledger.Payments))
	for i, p := range ledger.Payments {
		payments[i] = paymentResponse{
			ID:     p.ID,
			PaidBy: p.PaidBy,
			Date:   dateStr(p.Date),
			Amount: money(p.Amount),
		}
	}
	entries := make([]ledgerEntryResponse, len(ledger.Entries))
	for i, e := range ledger.Entries {
		entries[i] = ledgerEntryResponse{
			Kind:     string(e.Kind),
			ID:       e.ID,
			Date:     dateStr(e.Date),
			FuelType: string(e.FuelType),
			Units:    money(e.Units),
			UnitRate: money(e.UnitRate),
			Amount:   money(e.Amount),
		}
	}
	writeJSON(ctx, xhttp.StatusOK, personLedgerResponse{
		Person:   ledger.Person,
		Loans:    loans,
		Payments: payments,
		Entries:  entries,
		Totals:   toTotalsResponse(ledger.Totals),
	})
}

func (h *LedgerHandler) ListPeople(ctx *xhttp.RequestCtx) {
	people, err := h.reader.ListPeople(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	out := make([]personSummaryResponse, len(people))
	for i, p := range people {
		out[i] = personSummaryResponse{
			ID:       p.ID,
			Name:     p.Name,
			Address:  p.Address,
			Phone:    p.Phone,
			NetTotal: money(p.NetTotal),
		}
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}
