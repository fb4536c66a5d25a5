package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
)

type MockLedgerGateway struct {
	mock.Mock
}

func (m *MockLedgerGateway) CreatePerson(ctx context.Context, req model.PersonCreateRequest) (*model.Person, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockLedgerGateway) AddLoan(ctx context.Context, req model.LoanCreateRequest) (*model.Loan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *MockLedgerGateway) AddPayment(ctx context.Context, req model.PaymentCreateRequest) (*model.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockLedgerGateway) DeleteLoan(ctx context.Context, id int64) (*model.LedgerTotals, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerTotals), args.Error(1)
}

func (m *MockLedgerGateway) DeletePayment(ctx context.Context, id int64) (*model.LedgerTotals, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerTotals), args.Error(1)
}

type MockLedgerReader struct {
	mock.Mock
}

func (m *MockLedgerReader) GetPersonLedger(ctx context.Context, personID int64) (*model.PersonLedger, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PersonLedger), args.Error(1)
}

func (m *MockLedgerReader) ListPeople(ctx context.Context) ([]model.PersonSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PersonSummary), args.Error(1)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestLedgerHandler_CreateLoan(t *testing.T) {
	t.Run("creates and rounds", func(t *testing.T) {
		gw := new(MockLedgerGateway)
		handler := NewLedgerHandler(gw, nil)

		body, _ := json.Marshal(createLoanRequest{
			PersonID: 7,
			Date:     "2024-01-01",
			FuelType: "petrol",
			Units:    decimal.NewFromFloat(3.333),
			UnitRate: decimal.NewFromInt(100),
		})

		gw.On("AddLoan", mock.Anything, mock.MatchedBy(func(p model.LoanCreateRequest) bool {
			return p.PersonID == 7 && p.FuelType == model.FuelPetrol
		})).Return(&model.Loan{
			ID:       12,
			PersonID: 7,
			Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			FuelType: model.FuelPetrol,
			Units:    decimal.NewFromFloat(3.333),
			UnitRate: decimal.NewFromInt(100),
			Amount:   decimal.NewFromFloat(333.3),
		}, nil)

		ctx := setupTestContext("POST", "/loans", body)
		handler.CreateLoan(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		var resp loanResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, int64(12), resp.ID)
		assert.Equal(t, "2024-01-01", resp.Date)
		assert.Equal(t, 3.33, resp.Units)
		assert.Equal(t, 333.3, resp.Amount)
		gw.AssertExpectations(t)
	})

	t.Run("bad date is 422", func(t *testing.T) {
		gw := new(MockLedgerGateway)
		handler := NewLedgerHandler(gw, nil)

		body, _ := json.Marshal(map[string]any{"person_id": 7, "date": "01/01/2024"})
		ctx := setupTestContext("POST", "/loans", body)
		handler.CreateLoan(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())
	})

	t.Run("invalid JSON is 400", func(t *testing.T) {
		gw := new(MockLedgerGateway)
		handler := NewLedgerHandler(gw, nil)

		ctx := setupTestContext("POST", "/loans", []byte("not json"))
		handler.CreateLoan(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestLedgerHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperr.Validation("units", "must be positive"), 422},
		{"not found", apperr.NotFound("person", 9), 404},
		{"conflict", apperr.Conflict("pump", 1, "100", "90"), 409},
		{"consistency", apperr.Consistency("stock:petrol", "diverged"), 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(MockLedgerGateway)
			handler := NewLedgerHandler(gw, nil)

			gw.On("DeleteLoan", mock.Anything, int64(5)).Return(nil, tc.err)

			ctx := setupTestContext("DELETE", "/loans/5", nil)
			ctx.SetUserValue("id", "5")
			handler.DeleteLoan(ctx)

			assert.Equal(t, tc.status, ctx.Response.StatusCode())
		})
	}
}

func TestLedgerHandler_DeleteLoan(t *testing.T) {
	gw := new(MockLedgerGateway)
	handler := NewLedgerHandler(gw, nil)

	gw.On("DeleteLoan", mock.Anything, int64(3)).Return(&model.LedgerTotals{
		Loan: decimal.NewFromInt(500),
		Paid: decimal.NewFromInt(200),
		Net:  decimal.NewFromInt(300),
	}, nil)

	ctx := setupTestContext("DELETE", "/loans/3", nil)
	ctx.SetUserValue("id", "3")
	handler.DeleteLoan(ctx)

	assert.Equal(t, 204, ctx.Response.StatusCode())
	gw.AssertExpectations(t)
}

func TestLedgerHandler_GetPersonLedger(t *testing.T) {
	reader := new(MockLedgerReader)
	handler := NewLedgerHandler(nil, reader)

	reader.On("GetPersonLedger", mock.Anything, int64(1)).Return(&model.PersonLedger{
		Person: model.Person{ID: 1, Name: "Ali"},
		Entries: []model.LedgerEntry{
			{Kind: model.EntryPayment, ID: 1, Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(200)},
			{Kind: model.EntryLoan, ID: 1, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(500)},
		},
		Totals: model.LedgerTotals{
			Loan: decimal.NewFromInt(500),
			Paid: decimal.NewFromInt(200),
			Net:  decimal.NewFromInt(300),
		},
	}, nil)

	ctx := setupTestContext("GET", "/loans/person/1", nil)
	ctx.SetUserValue("id", "1")
	handler.GetPersonLedger(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	var resp personLedgerResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "payment", resp.Entries[0].Kind)
	assert.Equal(t, "loan", resp.Entries[1].Kind)
	assert.Equal(t, 300.0, resp.Totals.Net)
}
