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

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type MockReportReader struct {
	mock.Mock
}

func (m *MockReportReader) RevenueToday(ctx context.Context) (*model.RevenueReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RevenueReport), args.Error(1)
}

func (m *MockReportReader) RevenueCumulative(ctx context.Context, from, to *time.Time) (*model.RevenueReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RevenueReport), args.Error(1)
}

func (m *MockReportReader) UnitsSeries(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error) {
	args := m.Called(ctx, fuel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SeriesPoint), args.Error(1)
}

func (m *MockReportReader) UnitsSeriesByRate(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error) {
	args := m.Called(ctx, fuel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SeriesPoint), args.Error(1)
}

func (m *MockReportReader) UnitsSeriesRunning(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error) {
	args := m.Called(ctx, fuel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SeriesPoint), args.Error(1)
}

func (m *MockReportReader) Summary(ctx context.Context) (*model.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Summary), args.Error(1)
}

func matchDate(want time.Time) interface{} {
	return mock.MatchedBy(func(p *time.Time) bool {
		return p != nil && p.Equal(want)
	})
}

func TestReportHandler_RevenueCumulative(t *testing.T) {
	report := &model.RevenueReport{
		Petrol: model.FuelRevenue{Units: decimal.NewFromInt(100), Revenue: decimal.NewFromInt(10000)},
		Diesel: model.FuelRevenue{Units: decimal.NewFromInt(50), Revenue: decimal.NewFromInt(4500)},
		Total:  decimal.NewFromInt(14500),
	}

	t.Run("no params means all time", func(t *testing.T) {
		reader := new(MockReportReader)
		handler := NewReportHandler(reader)
		reader.On("RevenueCumulative", mock.Anything, (*time.Time)(nil), (*time.Time)(nil)).Return(report, nil)

		ctx := setupTestContext("GET", "/report/revenue-cumulative", nil)
		handler.RevenueCumulative(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var resp revenueReportResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, 14500.0, resp.Total)
		reader.AssertExpectations(t)
	})

	t.Run("from and to narrow the window", func(t *testing.T) {
		reader := new(MockReportReader)
		handler := NewReportHandler(reader)
		reader.On("RevenueCumulative", mock.Anything,
			matchDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
			matchDate(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)),
		).Return(report, nil)

		ctx := setupTestContext("GET", "/report/revenue-cumulative?from=2024-06-01&to=2024-06-02", nil)
		handler.RevenueCumulative(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		reader.AssertExpectations(t)
	})

	t.Run("malformed from is 422", func(t *testing.T) {
		reader := new(MockReportReader)
		handler := NewReportHandler(reader)

		ctx := setupTestContext("GET", "/report/revenue-cumulative?from=June-1st", nil)
		handler.RevenueCumulative(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())
		reader.AssertNotCalled(t, "RevenueCumulative", mock.Anything, mock.Anything, mock.Anything)
	})
}
