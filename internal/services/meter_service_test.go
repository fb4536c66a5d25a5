package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/internal/repository"
)

func newMeterService(env *testEnv) *MeterService {
	return NewMeterService(env.db, env.pumpRepo, env.saleRepo, env.stockRepo)
}

func seedPumps(t *testing.T, env *testEnv) (petrol, diesel *model.Pump) {
	t.Helper()
	pumps := []repository.PumpEntity{
		{Name: "P1", FuelType: string(model.FuelPetrol), Meter: decimal.NewFromInt(1000), LastUnitRate: decimal.NewFromInt(100)},
		{Name: "D1", FuelType: string(model.FuelDiesel), Meter: decimal.NewFromInt(2000), LastUnitRate: decimal.NewFromInt(90)},
	}
	for i := range pumps {
		require.NoError(t, env.rawDB.Create(&pumps[i]).Error)
	}
	p, err := env.pumpRepo.Get(context.Background(), pumps[0].ID)
	require.NoError(t, err)
	d, err := env.pumpRepo.Get(context.Background(), pumps[1].ID)
	require.NoError(t, err)
	return p, d
}

func TestMeterService_SubmitReadings(t *testing.T) {
	env := setupEnv(t)
	svc := newMeterService(env)
	ctx := context.Background()
	petrol, diesel := seedPumps(t, env)

	results, err := svc.SubmitReadings(ctx, day("2024-05-01"), []model.ReadingEntry{
		{PumpID: diesel.ID, PreviousMeter: decimal.NewFromInt(2000), CurrentMeter: decimal.NewFromInt(2030), UnitRate: decimal.NewFromInt(95)},
		{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1000), CurrentMeter: decimal.NewFromInt(1050), UnitRate: decimal.NewFromInt(110)},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	t.Run("derives units and revenue", func(t *testing.T) {
		// Results follow pump id order, not submission order.
		assert.Equal(t, petrol.ID, results[0].PumpID)
		assert.True(t, results[0].UnitsSold.Equal(decimal.NewFromInt(50)), "units %s", results[0].UnitsSold)
		assert.True(t, results[0].Revenue.Equal(decimal.NewFromInt(5500)), "revenue %s", results[0].Revenue)
		assert.True(t, results[1].UnitsSold.Equal(decimal.NewFromInt(30)), "units %s", results[1].UnitsSold)
	})

	t.Run("advances meters and rates", func(t *testing.T) {
		updated, err := env.pumpRepo.Get(ctx, petrol.ID)
		require.NoError(t, err)
		assert.True(t, updated.Meter.Equal(decimal.NewFromInt(1050)))
		assert.True(t, updated.LastUnitRate.Equal(decimal.NewFromInt(110)))
	})

	t.Run("records sale events", func(t *testing.T) {
		sold, err := env.saleRepo.SumUnits(ctx, model.FuelPetrol, nil)
		require.NoError(t, err)
		assert.True(t, sold.Equal(decimal.NewFromInt(50)), "sold %s", sold)
	})

	t.Run("moves stock counters", func(t *testing.T) {
		level, err := env.stockRepo.Get(ctx, model.FuelDiesel)
		require.NoError(t, err)
		assert.True(t, level.Sold.Equal(decimal.NewFromInt(30)), "sold %s", level.Sold)
	})

	t.Run("chains onto the new baseline", func(t *testing.T) {
		_, err := svc.SubmitReadings(ctx, day("2024-05-02"), []model.ReadingEntry{
			{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1050), CurrentMeter: decimal.NewFromInt(1060), UnitRate: decimal.NewFromInt(110)},
		})
		require.NoError(t, err)
	})
}

func TestMeterService_BaselineMismatchAbortsWholeBatch(t *testing.T) {
	env := setupEnv(t)
	svc := newMeterService(env)
	ctx := context.Background()
	petrol, diesel := seedPumps(t, env)

	_, err := svc.SubmitReadings(ctx, day("2024-05-01"), []model.ReadingEntry{
		{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1000), CurrentMeter: decimal.NewFromInt(1040), UnitRate: decimal.NewFromInt(100)},
		{PumpID: diesel.ID, PreviousMeter: decimal.NewFromInt(1999), CurrentMeter: decimal.NewFromInt(2030), UnitRate: decimal.NewFromInt(90)},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	// The valid first entry must not survive the rollback.
	unchanged, err := env.pumpRepo.Get(ctx, petrol.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.Meter.Equal(decimal.NewFromInt(1000)), "meter %s", unchanged.Meter)

	sold, err := env.saleRepo.SumUnits(ctx, model.FuelPetrol, nil)
	require.NoError(t, err)
	assert.True(t, sold.IsZero(), "sold %s", sold)

	rows, err := svc.ListReadings(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMeterService_RejectsBadBatches(t *testing.T) {
	env := setupEnv(t)
	svc := newMeterService(env)
	ctx := context.Background()
	petrol, _ := seedPumps(t, env)

	t.Run("empty batch", func(t *testing.T) {
		_, err := svc.SubmitReadings(ctx, day("2024-05-01"), nil)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("duplicate pump", func(t *testing.T) {
		entry := model.ReadingEntry{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1000), CurrentMeter: decimal.NewFromInt(1010), UnitRate: decimal.NewFromInt(100)}
		_, err := svc.SubmitReadings(ctx, day("2024-05-01"), []model.ReadingEntry{entry, entry})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("backward meter", func(t *testing.T) {
		_, err := svc.SubmitReadings(ctx, day("2024-05-01"), []model.ReadingEntry{
			{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1000), CurrentMeter: decimal.NewFromInt(990), UnitRate: decimal.NewFromInt(100)},
		})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown pump", func(t *testing.T) {
		_, err := svc.SubmitReadings(ctx, day("2024-05-01"), []model.ReadingEntry{
			{PumpID: 99, PreviousMeter: decimal.NewFromInt(0), CurrentMeter: decimal.NewFromInt(10), UnitRate: decimal.NewFromInt(100)},
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestMeterService_ZeroDeltaReadingIsAccepted(t *testing.T) {
	env := setupEnv(t)
	svc := newMeterService(env)
	ctx := context.Background()
	petrol, _ := seedPumps(t, env)

	results, err := svc.SubmitReadings(ctx, day("2024-05-01"), []model.ReadingEntry{
		{PumpID: petrol.ID, PreviousMeter: decimal.NewFromInt(1000), CurrentMeter: decimal.NewFromInt(1000), UnitRate: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].UnitsSold.IsZero())
	assert.True(t, results[0].Revenue.IsZero())
}

func TestMeterService_LatestMeters(t *testing.T) {
	env := setupEnv(t)
	svc := newMeterService(env)
	ctx := context.Background()
	petrol, diesel := seedPumps(t, env)

	meters, err := svc.LatestMeters(ctx)
	require.NoError(t, err)
	require.Len(t, meters, 2)
	assert.Equal(t, petrol.ID, meters[0].PumpID)
	assert.True(t, meters[0].PreviousMeter.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, diesel.ID, meters[1].PumpID)
	assert.True(t, meters[1].UnitRate.Equal(decimal.NewFromInt(90)))
}
