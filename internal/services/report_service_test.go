package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/redis"
)

func newReportService(t *testing.T, env *testEnv) (*ReportService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := redis.NewRedisAdapter("report-test-"+t.Name(), "test", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	return NewReportService(env.saleRepo, env.purchaseRepo, cache, nil), mr
}

func seedSales(t *testing.T, env *testEnv) (petrolID int64) {
	t.Helper()
	meter := newMeterService(env)
	petrol, diesel := seedPumps(t, env)

	_, err := meter.SubmitReadings(context.Background(), day("2024-06-01"), []model.ReadingEntry{
		{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1000), CurrentMeter: decimal.NewFromInt(1100), UnitRate: decimal.NewFromInt(100)},
		{PumpID: diesel.ID, PreviousMeter: decimal.NewFromInt(2000), CurrentMeter: decimal.NewFromInt(2050), UnitRate: decimal.NewFromInt(90)},
	})
	require.NoError(t, err)

	_, err = meter.SubmitReadings(context.Background(), day("2024-06-02"), []model.ReadingEntry{
		{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1100), CurrentMeter: decimal.NewFromInt(1150), UnitRate: decimal.NewFromInt(110)},
	})
	require.NoError(t, err)
	return petrol.ID
}

func TestReportService_RevenueCumulative(t *testing.T) {
	env := setupEnv(t)
	svc, _ := newReportService(t, env)
	ctx := context.Background()
	seedSales(t, env)

	report, err := svc.RevenueCumulative(ctx, nil, nil)
	require.NoError(t, err)

	// Petrol: 100*100 + 50*110 = 15500, diesel: 50*90 = 4500.
	assert.True(t, report.Petrol.Revenue.Equal(decimal.NewFromInt(15500)), "petrol %s", report.Petrol.Revenue)
	assert.True(t, report.Petrol.Units.Equal(decimal.NewFromInt(150)), "units %s", report.Petrol.Units)
	assert.True(t, report.Diesel.Revenue.Equal(decimal.NewFromInt(4500)), "diesel %s", report.Diesel.Revenue)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(20000)), "total %s", report.Total)
}

func TestReportService_RevenueBounded(t *testing.T) {
	env := setupEnv(t)
	svc, mr := newReportService(t, env)
	ctx := context.Background()
	seedSales(t, env)

	t.Run("closed window keeps only that day", func(t *testing.T) {
		d := day("2024-06-01")
		report, err := svc.RevenueCumulative(ctx, &d, &d)
		require.NoError(t, err)
		assert.True(t, report.Petrol.Revenue.Equal(decimal.NewFromInt(10000)), "petrol %s", report.Petrol.Revenue)
		assert.True(t, report.Diesel.Revenue.Equal(decimal.NewFromInt(4500)), "diesel %s", report.Diesel.Revenue)
		assert.True(t, report.Total.Equal(decimal.NewFromInt(14500)), "total %s", report.Total)
	})

	t.Run("open lower bound", func(t *testing.T) {
		from := day("2024-06-02")
		report, err := svc.RevenueCumulative(ctx, &from, nil)
		require.NoError(t, err)
		assert.True(t, report.Petrol.Revenue.Equal(decimal.NewFromInt(5500)), "petrol %s", report.Petrol.Revenue)
		assert.True(t, report.Diesel.Revenue.IsZero(), "diesel %s", report.Diesel.Revenue)
	})

	t.Run("bounded answers never touch the cache", func(t *testing.T) {
		assert.False(t, mr.Exists("test:"+cacheKeyCumulative))
	})
}

func TestReportService_CachesAndInvalidates(t *testing.T) {
	env := setupEnv(t)
	svc, mr := newReportService(t, env)
	ctx := context.Background()
	petrolID := seedSales(t, env)

	first, err := svc.RevenueCumulative(ctx, nil, nil)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:"+cacheKeyCumulative))

	// A cached answer survives changes made behind the cache's back.
	meter := newMeterService(env)
	_, err = meter.SubmitReadings(ctx, day("2024-06-03"), []model.ReadingEntry{
		{PumpID: petrolID, PreviousMeter: decimal.NewFromInt(1150), CurrentMeter: decimal.NewFromInt(1200), UnitRate: decimal.NewFromInt(110)},
	})
	require.NoError(t, err)

	stale, err := svc.RevenueCumulative(ctx, nil, nil)
	require.NoError(t, err)
	assert.True(t, stale.Total.Equal(first.Total), "total %s", stale.Total)

	svc.Invalidate()
	assert.False(t, mr.Exists("test:"+cacheKeyCumulative))

	fresh, err := svc.RevenueCumulative(ctx, nil, nil)
	require.NoError(t, err)
	assert.True(t, fresh.Total.Equal(decimal.NewFromInt(25500)), "total %s", fresh.Total)
}

func TestReportService_UnitsSeries(t *testing.T) {
	env := setupEnv(t)
	svc, _ := newReportService(t, env)
	ctx := context.Background()
	seedSales(t, env)

	t.Run("ascending by date", func(t *testing.T) {
		points, err := svc.UnitsSeries(ctx, model.FuelPetrol)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.True(t, points[0].Date.Before(points[1].Date))
		assert.True(t, points[0].Units.Equal(decimal.NewFromInt(100)), "units %s", points[0].Units)
	})

	t.Run("running total accumulates", func(t *testing.T) {
		points, err := svc.UnitsSeriesRunning(ctx, model.FuelPetrol)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.True(t, points[0].TotalRevenue.Equal(decimal.NewFromInt(10000)), "running %s", points[0].TotalRevenue)
		assert.True(t, points[1].TotalRevenue.Equal(decimal.NewFromInt(15500)), "running %s", points[1].TotalRevenue)
	})

	t.Run("rate split keeps one point per rate", func(t *testing.T) {
		points, err := svc.UnitsSeriesByRate(ctx, model.FuelPetrol)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.True(t, points[0].UnitRate.Equal(decimal.NewFromInt(100)))
		assert.True(t, points[1].UnitRate.Equal(decimal.NewFromInt(110)))
	})
}

func TestReportService_SummaryLossSevenDays(t *testing.T) {
	env := setupEnv(t)
	svc, _ := newReportService(t, env)
	stock := newStockService(env)
	meter := newMeterService(env)
	ctx := context.Background()
	petrol, _ := seedPumps(t, env)

	// 30 units bought, 50 sold within the window: 20 unaccounted for.
	_, err := stock.RecordPurchase(ctx, model.PurchaseCreateRequest{
		Date:              model.Today().AddDate(0, 0, -3),
		FuelType:          model.FuelPetrol,
		Units:             decimal.NewFromInt(30),
		BuyingRatePerUnit: decimal.NewFromInt(95),
	})
	require.NoError(t, err)

	_, err = meter.SubmitReadings(ctx, model.Today().AddDate(0, 0, -2), []model.ReadingEntry{
		{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1000), CurrentMeter: decimal.NewFromInt(1050), UnitRate: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Petrol.Equal(decimal.NewFromInt(5000)), "petrol %s", summary.Petrol)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(5000)), "total %s", summary.Total)
	assert.True(t, summary.Loss7.Equal(decimal.NewFromInt(20)), "loss7 %s", summary.Loss7)
}

func TestReportService_SummaryNoShortfallIsZero(t *testing.T) {
	env := setupEnv(t)
	svc, _ := newReportService(t, env)
	stock := newStockService(env)
	ctx := context.Background()

	_, err := stock.RecordPurchase(ctx, model.PurchaseCreateRequest{
		Date:              model.Today(),
		FuelType:          model.FuelDiesel,
		Units:             decimal.NewFromInt(100),
		BuyingRatePerUnit: decimal.NewFromInt(90),
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Loss7.IsZero(), "loss7 %s", summary.Loss7)
}

func TestReportService_WorksWithoutCache(t *testing.T) {
	env := setupEnv(t)
	svc := NewReportService(env.saleRepo, env.purchaseRepo, nil, nil)
	seedSales(t, env)

	report, err := svc.RevenueCumulative(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(20000)), "total %s", report.Total)

	svc.Invalidate()
	svc.Prewarm()
}
