package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
)

func seedPump(t *testing.T, db *testDB, name string, fuel model.FuelType, meter int64) int64 {
	t.Helper()
	entity := &PumpEntity{
		Name:     name,
		FuelType: string(fuel),
		Meter:    decimal.NewFromInt(meter),
	}
	require.NoError(t, db.Write(context.Background()).Create(entity).Error)
	return entity.ID
}

func TestPumpRepository_AdvanceMeter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPumpRepository(db.DB)
	ctx := context.Background()
	pumpID := seedPump(t, db, "Pump 1", model.FuelPetrol, 1000)

	err := repo.AdvanceMeter(ctx, pumpID, decimal.NewFromInt(1200), decimal.NewFromFloat(272.5))
	require.NoError(t, err)

	pump, err := repo.Get(ctx, pumpID)
	require.NoError(t, err)
	assert.True(t, pump.Meter.Equal(decimal.NewFromInt(1200)), "got %s", pump.Meter)
	assert.True(t, pump.LastUnitRate.Equal(decimal.NewFromFloat(272.5)), "got %s", pump.LastUnitRate)
}

func TestPumpRepository_AdvanceMeter_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPumpRepository(db.DB)

	err := repo.AdvanceMeter(context.Background(), 99, decimal.NewFromInt(1), decimal.NewFromInt(1))
	assert.True(t, apperr.IsNotFound(err))
}

func TestPumpRepository_ListReadings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPumpRepository(db.DB)
	ctx := context.Background()
	pumpID := seedPump(t, db, "Pump 3", model.FuelDiesel, 0)

	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	_, err := repo.CreateReading(ctx, &model.Reading{
		PumpID:        pumpID,
		Date:          date,
		PreviousMeter: decimal.Zero,
		CurrentMeter:  decimal.NewFromInt(300),
		UnitRate:      decimal.NewFromInt(288),
		Units:         decimal.NewFromInt(300),
		Revenue:       decimal.NewFromInt(86400),
	})
	require.NoError(t, err)

	rows, err := repo.ListReadings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pump 3", rows[0].PumpName)
	assert.Equal(t, model.FuelDiesel, rows[0].FuelType)
	assert.True(t, rows[0].Units.Equal(decimal.NewFromInt(300)))
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(86400)))
	assert.True(t, rows[0].Meter.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, date, rows[0].Date)
}
