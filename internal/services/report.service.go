package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/logger"
	"github.com/sarmadgill/pump-ledger/pkg/prom"
	"github.com/sarmadgill/pump-ledger/pkg/redis"
	"github.com/sarmadgill/pump-ledger/pkg/worker"
)

const (
	cacheKeySummary    = "report:summary"
	cacheKeyCumulative = "report:cumulative"
	cacheKeyTodayFmt   = "report:today:"

	// Entries are invalidated synchronously after every write that
	// changes them; the TTL only bounds the lifetime of orphans.
	reportCacheTTL = time.Hour
)

// ReportService answers the read-side queries over sale and purchase
// events. Aggregates are cached in redis and recomputed lazily; writers
// drop the cache inside their critical section so a read after an
// accepted write never sees a stale figure.
type ReportService struct {
	saleRepo     SaleRepository
	purchaseRepo PurchaseRepository
	cache        redis.RedisAdapter
	pool         *worker.Pool
}

// NewReportService wires the read side. cache and pool may be nil; the
// service then computes everything on demand.
func NewReportService(saleRepo SaleRepository, purchaseRepo PurchaseRepository, cache redis.RedisAdapter, pool *worker.Pool) *ReportService {
	return &ReportService{
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		cache:        cache,
		pool:         pool,
	}
}

// RevenueToday sums today's sale events by fuel.
func (s *ReportService) RevenueToday(ctx context.Context) (*model.RevenueReport, error) {
	today := model.Today()
	key := cacheKeyTodayFmt + today.Format(model.DateLayout)

	var report model.RevenueReport
	if s.fromCache(key, &report) {
		return &report, nil
	}

	out, err := s.revenueBetween(ctx, &today, &today)
	if err != nil {
		return nil, err
	}
	s.toCache(key, out)
	return out, nil
}

// RevenueCumulative sums sale events over the given range, both bounds
// inclusive and either side optional. The unbounded all-time figure is
// the one the dashboard polls, so only that variant is cached.
func (s *ReportService) RevenueCumulative(ctx context.Context, from, to *time.Time) (*model.RevenueReport, error) {
	if from != nil || to != nil {
		return s.revenueBetween(ctx, from, to)
	}
	var report model.RevenueReport
	if s.fromCache(cacheKeyCumulative, &report) {
		return &report, nil
	}
	out, err := s.revenueBetween(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	s.toCache(cacheKeyCumulative, out)
	return out, nil
}

func (s *ReportService) revenueBetween(ctx context.Context, from, to *time.Time) (*model.RevenueReport, error) {
	byFuel, err := s.saleRepo.RevenueByFuel(ctx, from, to)
	if err != nil {
		return nil, err
	}
	report := &model.RevenueReport{
		Petrol: byFuel[model.FuelPetrol],
		Diesel: byFuel[model.FuelDiesel],
	}
	report.Total = report.Petrol.Revenue.Add(report.Diesel.Revenue)
	return report, nil
}

// UnitsSeries returns the per-date units series for one fuel, oldest
// first.
func (s *ReportService) UnitsSeries(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error) {
	return s.saleRepo.Series(ctx, fuel)
}

// UnitsSeriesByRate splits each date by the unit rate in force, so a
// mid-day price change shows as two points.
func (s *ReportService) UnitsSeriesByRate(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error) {
	return s.saleRepo.SeriesByRate(ctx, fuel)
}

// UnitsSeriesRunning is the plain series with a running revenue
// cumulative folded in.
func (s *ReportService) UnitsSeriesRunning(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error) {
	points, err := s.saleRepo.Series(ctx, fuel)
	if err != nil {
		return nil, err
	}
	running := decimal.Zero
	for i := range points {
		running = running.Add(points[i].Revenue)
		points[i].TotalRevenue = running
	}
	return points, nil
}

// Summary is the dashboard headline: lifetime revenue split by fuel
// plus the 7-day shortfall, units sold in excess of units purchased
// over the last seven days, summed across fuels and floored at zero
// per fuel.
func (s *ReportService) Summary(ctx context.Context) (*model.Summary, error) {
	var summary model.Summary
	if s.fromCache(cacheKeySummary, &summary) {
		return &summary, nil
	}

	byFuel, err := s.saleRepo.RevenueByFuel(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	out := &model.Summary{
		Petrol: byFuel[model.FuelPetrol].Revenue,
		Diesel: byFuel[model.FuelDiesel].Revenue,
	}
	out.Total = out.Petrol.Add(out.Diesel)

	weekAgo := model.Today().AddDate(0, 0, -7)
	loss := decimal.Zero
	for _, fuel := range model.FuelTypes() {
		sold, err := s.saleRepo.SumUnits(ctx, fuel, &weekAgo)
		if err != nil {
			return nil, err
		}
		purchased, err := s.purchaseRepo.SumUnits(ctx, fuel, &weekAgo)
		if err != nil {
			return nil, err
		}
		if shortfall := sold.Sub(purchased); shortfall.IsPositive() {
			loss = loss.Add(shortfall)
		}
	}
	out.Loss7 = loss

	s.toCache(cacheKeySummary, out)
	return out, nil
}

// Invalidate drops every cached aggregate. Called by writers inside
// their critical section.
func (s *ReportService) Invalidate() {
	if s.cache == nil {
		return
	}
	keys := []string{
		cacheKeySummary,
		cacheKeyCumulative,
		cacheKeyTodayFmt + model.Today().Format(model.DateLayout),
	}
	if err := s.cache.Del(keys...); err != nil {
		logger.Error("report cache invalidation failed", "error", err)
	}
}

// Prewarm queues background recomputation of the summary and cumulative
// aggregates so the next dashboard load hits the cache.
func (s *ReportService) Prewarm() {
	if s.pool == nil {
		return
	}
	s.pool.TrySubmit(func() {
		if _, err := s.Summary(context.Background()); err != nil {
			logger.Error("summary prewarm failed", "error", err)
		}
	})
	s.pool.TrySubmit(func() {
		if _, err := s.RevenueCumulative(context.Background(), nil, nil); err != nil {
			logger.Error("cumulative prewarm failed", "error", err)
		}
	})
}

func (s *ReportService) fromCache(key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(key)
	if err != nil {
		if err != redis.NilError {
			logger.Error("report cache read failed", "key", key, "error", err)
		}
		prom.IncCounter(prom.MetricReportCacheTotal, "miss")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Error("report cache entry corrupt", "key", key, "error", err)
		prom.IncCounter(prom.MetricReportCacheTotal, "miss")
		return false
	}
	prom.IncCounter(prom.MetricReportCacheTotal, "hit")
	return true
}

func (s *ReportService) toCache(key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, raw, reportCacheTTL); err != nil {
		logger.Error("report cache write failed", "key", key, "error", err)
	}
}
