package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type PumpRepository struct {
	*pg.DB
}

func NewPumpRepository(db *pg.DB) *PumpRepository {
	return &PumpRepository{
		db,
	}
}

func (r *PumpRepository) Get(ctx context.Context, id int64) (*model.Pump, error) {
	var entity PumpEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("pump", id)
		}
		return nil, err
	}
	return toPumpModel(&entity), nil
}

// GetForUpdate locks the pump row for the rest of the surrounding
// transaction. Reading batches take this lock so the chain check and
// the meter advance are atomic per pump. Sqlite has no row locks and
// serializes writers anyway, so the clause is skipped there.
func (r *PumpRepository) GetForUpdate(ctx context.Context, id int64) (*model.Pump, error) {
	q := r.Write(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var entity PumpEntity
	err := q.
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("pump", id)
		}
		return nil, err
	}
	return toPumpModel(&entity), nil
}

func (r *PumpRepository) List(ctx context.Context) ([]*model.Pump, error) {
	var entities []*PumpEntity
	if err := r.Read(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	pumps := make([]*model.Pump, len(entities))
	for i, e := range entities {
		pumps[i] = toPumpModel(e)
	}
	return pumps, nil
}

// AdvanceMeter moves the stored meter to the accepted current reading
// and remembers the rate it was sold at.
func (r *PumpRepository) AdvanceMeter(ctx context.Context, id int64, meter, unitRate decimal.Decimal) error {
	result := r.Write(ctx).
		Model(&PumpEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"meter":          meter,
			"last_unit_rate": unitRate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("pump", id)
	}
	return nil
}

func (r *PumpRepository) CreateReading(ctx context.Context, reading *model.Reading) (*model.Reading, error) {
	entity := toReadingEntity(reading)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toReadingModel(entity), nil
}

// ListReadings returns the flat readings table joined with pump names,
// newest first.
func (r *PumpRepository) ListReadings(ctx context.Context) ([]model.ReadingRow, error) {
	var rows []struct {
		ID       int64
		Date     time.Time
		PumpName string
		FuelType string
		Units    decimal.Decimal
		UnitRate decimal.Decimal
		Revenue  decimal.Decimal
		Meter    decimal.Decimal
	}
	err := r.Read(ctx).
		Model(&ReadingEntity{}).
		Select("pump_readings.id AS id, pump_readings.date AS date, pumps.name AS pump_name, pumps.fuel_type AS fuel_type, pump_readings.units AS units, pump_readings.unit_rate AS unit_rate, pump_readings.revenue AS revenue, pump_readings.current_meter AS meter").
		Joins("JOIN pumps ON pumps.id = pump_readings.pump_id").
		Order("pump_readings.date DESC, pump_readings.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.ReadingRow, len(rows))
	for i, row := range rows {
		out[i] = model.ReadingRow{
			ID:       row.ID,
			Date:     model.Day(row.Date),
			PumpName: row.PumpName,
			FuelType: model.FuelType(row.FuelType),
			Units:    row.Units,
			UnitRate: row.UnitRate,
			Amount:   row.Revenue,
			Meter:    row.Meter,
		}
	}
	return out, nil
}
