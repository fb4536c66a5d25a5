package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type PumpRepository interface {
	Get(ctx context.Context, id int64) (*model.Pump, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Pump, error)
	List(ctx context.Context) ([]*model.Pump, error)
	AdvanceMeter(ctx context.Context, id int64, meter, unitRate decimal.Decimal) error
	CreateReading(ctx context.Context, reading *model.Reading) (*model.Reading, error)
	ListReadings(ctx context.Context) ([]model.ReadingRow, error)
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) (*model.Sale, error)
	RevenueByFuel(ctx context.Context, from, to *time.Time) (map[model.FuelType]model.FuelRevenue, error)
	Series(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error)
	SeriesByRate(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error)
	SumUnits(ctx context.Context, fuel model.FuelType, from *time.Time) (decimal.Decimal, error)
}

type StockRepository interface {
	Get(ctx context.Context, fuel model.FuelType) (*model.StockLevel, error)
	AddPurchased(ctx context.Context, fuel model.FuelType, units decimal.Decimal) error
	AddSold(ctx context.Context, fuel model.FuelType, units decimal.Decimal) error
}

// MeterService accepts pump reading batches and derives sales from the
// meter deltas. A batch is all-or-nothing: it runs inside one database
// transaction and any rejected entry rolls back the whole submission.
type MeterService struct {
	db        *pg.DB
	pumpRepo  PumpRepository
	saleRepo  SaleRepository
	stockRepo StockRepository
}

func NewMeterService(db *pg.DB, pumpRepo PumpRepository, saleRepo SaleRepository, stockRepo StockRepository) *MeterService {
	return &MeterService{
		db:        db,
		pumpRepo:  pumpRepo,
		saleRepo:  saleRepo,
		stockRepo: stockRepo,
	}
}

// SubmitReadings applies one batch of meter readings dated date. Every
// entry must name a distinct pump and its PreviousMeter must match the
// pump's stored meter exactly; any mismatch rejects the batch with a
// conflict so the operator re-reads the dials instead of booking a
// phantom delta.
func (s *MeterService) SubmitReadings(ctx context.Context, date time.Time, entries []model.ReadingEntry) ([]model.ReadingResult, error) {
	if len(entries) == 0 {
		return nil, apperr.Validation("entries", "at least one reading is required")
	}
	seen := make(map[int64]bool, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, err
		}
		if seen[entry.PumpID] {
			return nil, apperr.Validation("pump_id", "duplicate pump in batch")
		}
		seen[entry.PumpID] = true
	}

	// Lock pumps in id order so concurrent batches cannot deadlock.
	ordered := make([]model.ReadingEntry, len(entries))
	copy(ordered, entries)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].PumpID < ordered[j].PumpID })

	day := model.Day(date)
	results := make([]model.ReadingResult, 0, len(ordered))
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		results = results[:0]
		for _, entry := range ordered {
			res, err := s.applyEntry(txCtx, day, entry)
			if err != nil {
				return err
			}
			results = append(results, *res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *MeterService) applyEntry(ctx context.Context, day time.Time, entry model.ReadingEntry) (*model.ReadingResult, error) {
	pump, err := s.pumpRepo.GetForUpdate(ctx, entry.PumpID)
	if err != nil {
		return nil, err
	}
	if !entry.PreviousMeter.Equal(pump.Meter) {
		return nil, apperr.Conflict("pump", pump.ID, pump.Meter.String(), entry.PreviousMeter.String())
	}

	units := entry.UnitsSold()
	revenue := units.Mul(entry.UnitRate)
	if _, err := s.pumpRepo.CreateReading(ctx, &model.Reading{
		PumpID:        pump.ID,
		Date:          day,
		PreviousMeter: entry.PreviousMeter,
		CurrentMeter:  entry.CurrentMeter,
		UnitRate:      entry.UnitRate,
		Units:         units,
		Revenue:       revenue,
	}); err != nil {
		return nil, err
	}
	if _, err := s.saleRepo.Create(ctx, &model.Sale{
		PumpID:   pump.ID,
		FuelType: pump.FuelType,
		Date:     day,
		Units:    units,
		UnitRate: entry.UnitRate,
		Revenue:  revenue,
	}); err != nil {
		return nil, err
	}
	if err := s.stockRepo.AddSold(ctx, pump.FuelType, units); err != nil {
		return nil, err
	}
	if err := s.pumpRepo.AdvanceMeter(ctx, pump.ID, entry.CurrentMeter, entry.UnitRate); err != nil {
		return nil, err
	}
	return &model.ReadingResult{
		PumpID:    pump.ID,
		UnitsSold: units,
		Revenue:   revenue,
	}, nil
}

// LatestMeters lists every pump with its current meter and last
// accepted rate, the prefill for the next reading entry form.
func (s *MeterService) LatestMeters(ctx context.Context) ([]model.PumpMeter, error) {
	pumps, err := s.pumpRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PumpMeter, len(pumps))
	for i, pump := range pumps {
		out[i] = model.PumpMeter{
			PumpID:        pump.ID,
			PumpName:      pump.Name,
			FuelType:      pump.FuelType,
			PreviousMeter: pump.Meter,
			UnitRate:      pump.LastUnitRate,
		}
	}
	return out, nil
}

func (s *MeterService) ListReadings(ctx context.Context) ([]model.ReadingRow, error) {
	return s.pumpRepo.ListReadings(ctx)
}
