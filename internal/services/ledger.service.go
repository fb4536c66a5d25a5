package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type PersonRepository interface {
	Create(ctx context.Context, p *model.Person) (*model.Person, error)
	Get(ctx context.Context, id int64) (*model.Person, error)
	List(ctx context.Context) ([]*model.Person, error)
}

type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) (*model.Loan, error)
	Get(ctx context.Context, id int64) (*model.Loan, error)
	Delete(ctx context.Context, id int64) error
	ListByPerson(ctx context.Context, personID int64) ([]model.Loan, error)
	SumAmountByPerson(ctx context.Context, personID int64) (decimal.Decimal, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	Get(ctx context.Context, id int64) (*model.Payment, error)
	Delete(ctx context.Context, id int64) error
	ListByPerson(ctx context.Context, personID int64) ([]model.Payment, error)
	SumAmountByPerson(ctx context.Context, personID int64) (decimal.Decimal, error)
}

// LedgerService owns persons, loans and payments and the derived
// balances. Balances are always recomputed from the event rows, so a
// delete can never leave a stale total behind.
type LedgerService struct {
	personRepo  PersonRepository
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
}

func NewLedgerService(personRepo PersonRepository, loanRepo LoanRepository, paymentRepo PaymentRepository) *LedgerService {
	return &LedgerService{
		personRepo:  personRepo,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *LedgerService) CreatePerson(ctx context.Context, p model.PersonCreateRequest) (*model.Person, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.personRepo.Create(ctx, &model.Person{
		Name:    p.Name,
		Address: p.Address,
		Phone:   p.Phone,
	})
}

func (s *LedgerService) AddLoan(ctx context.Context, p model.LoanCreateRequest) (*model.Loan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.personRepo.Get(ctx, p.PersonID); err != nil {
		return nil, err
	}
	return s.loanRepo.Create(ctx, &model.Loan{
		PersonID: p.PersonID,
		Date:     model.Day(p.Date),
		FuelType: p.FuelType,
		Units:    p.Units,
		UnitRate: p.UnitRate,
		Amount:   p.Amount(),
	})
}

func (s *LedgerService) AddPayment(ctx context.Context, p model.PaymentCreateRequest) (*model.Payment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.personRepo.Get(ctx, p.PaidBy); err != nil {
		return nil, err
	}
	return s.paymentRepo.Create(ctx, &model.Payment{
		PaidBy: p.PaidBy,
		Date:   model.Day(p.Date),
		Amount: p.Amount,
	})
}

// DeleteLoan removes the loan and returns the owner's recomputed
// totals. The recompute happens before returning, so no caller can
// observe the old balance after the delete.
func (s *LedgerService) DeleteLoan(ctx context.Context, id int64) (*model.LedgerTotals, error) {
	loan, err := s.loanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loanRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	totals, err := s.Totals(ctx, loan.PersonID)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (s *LedgerService) DeletePayment(ctx context.Context, id int64) (*model.LedgerTotals, error) {
	payment, err := s.paymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	totals, err := s.Totals(ctx, payment.PaidBy)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// LoanOwner resolves the contention key for a loan deletion.
func (s *LedgerService) LoanOwner(ctx context.Context, id int64) (int64, error) {
	loan, err := s.loanRepo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return loan.PersonID, nil
}

func (s *LedgerService) PaymentOwner(ctx context.Context, id int64) (int64, error) {
	payment, err := s.paymentRepo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return payment.PaidBy, nil
}

// Totals computes the person's aggregate figures fresh.
func (s *LedgerService) Totals(ctx context.Context, personID int64) (*model.LedgerTotals, error) {
	loanSum, err := s.loanRepo.SumAmountByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	paidSum, err := s.paymentRepo.SumAmountByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	return &model.LedgerTotals{
		Loan: loanSum,
		Paid: paidSum,
		Net:  loanSum.Sub(paidSum),
	}, nil
}

// GetPersonLedger assembles the per-person view: raw rows, fresh
// totals, and the merged chronological entries.
func (s *LedgerService) GetPersonLedger(ctx context.Context, personID int64) (*model.PersonLedger, error) {
	person, err := s.personRepo.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	totals, err := s.Totals(ctx, personID)
	if err != nil {
		return nil, err
	}
	return &model.PersonLedger{
		Person:   *person,
		Loans:    loans,
		Payments: payments,
		Entries:  model.MergeEntries(loans, payments),
		Totals:   *totals,
	}, nil
}

// ListPeople returns everyone in insertion order, each with a freshly
// computed net balance.
func (s *LedgerService) ListPeople(ctx context.Context) ([]model.PersonSummary, error) {
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.PersonSummary, len(people))
	for i, person := range people {
		totals, err := s.Totals(ctx, person.ID)
		if err != nil {
			return nil, err
		}
		out[i] = model.PersonSummary{
			Person:   *person,
			NetTotal: totals.Net,
		}
	}
	return out, nil
}
