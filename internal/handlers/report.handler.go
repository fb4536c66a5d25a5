package handlers

import (
	"context"
	"time"

	"github.com/sarmadgill/pump-ledger/internal/model"
	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
)

type ReportReader interface {
	RevenueToday(ctx context.Context) (*model.RevenueReport, error)
	RevenueCumulative(ctx context.Context, from, to *time.Time) (*model.RevenueReport, error)
	UnitsSeries(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error)
	UnitsSeriesByRate(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error)
	UnitsSeriesRunning(ctx context.Context, fuel model.FuelType) ([]model.SeriesPoint, error)
	Summary(ctx context.Context) (*model.Summary, error)
}

type ReportHandler struct {
	reader ReportReader
}

func NewReportHandler(reader ReportReader) *ReportHandler {
	return &ReportHandler{reader: reader}
}

func RegisterReportRoutes(r *xhttp.Router, h *ReportHandler) {
	r.GET("/report/revenue-today", h.RevenueToday)
	r.GET("/report/revenue-cumulative", h.RevenueCumulative)
	r.GET("/report/summary", h.Summary)
	r.GET("/readings/{fuelType}", h.UnitsSeries)
	r.GET("/readings2/{fuelType}", h.UnitsSeriesByRate)
	r.GET("/readings3/{fuelType}", h.UnitsSeriesRunning)
}

type fuelRevenueResponse struct {
	Units   float64 `json:"units"`
	Revenue float64 `json:"revenue"`
}

type revenueReportResponse struct {
	Petrol fuelRevenueResponse `json:"petrol"`
	Diesel fuelRevenueResponse `json:"diesel"`
	Total  float64             `json:"total"`
}

type seriesPointResponse struct {
	Date         string   `json:"date"`
	Units        float64  `json:"units"`
	UnitRate     *float64 `json:"unit_rate,omitempty"`
	Revenue      float64  `json:"revenue"`
	TotalRevenue *float64 `json:"total_revenue,omitempty"`
}

type summaryResponse struct {
	Total  float64 `json:"total"`
	Petrol float64 `json:"petrol"`
	Diesel float64 `json:"diesel"`
	Loss7  float64 `json:"loss7"`
}

func toRevenueResponse(r *model.RevenueReport) revenueReportResponse {
	return revenueReportResponse{
		Petrol: fuelRevenueResponse{Units: money(r.Petrol.Units), Revenue: money(r.Petrol.Revenue)},
		Diesel: fuelRevenueResponse{Units: money(r.Diesel.Units), Revenue: money(r.Diesel.Revenue)},
		Total:  money(r.Total),
	}
}

func (h *ReportHandler) RevenueToday(ctx *xhttp.RequestCtx) {
	report, err := h.reader.RevenueToday(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toRevenueResponse(report))
}

// RevenueCumulative sums all time by default; optional from/to query
// params (YYYY-MM-DD, both inclusive) narrow the window.
func (h *ReportHandler) RevenueCumulative(ctx *xhttp.RequestCtx) {
	from, ok := queryDate(ctx, "from")
	if !ok {
		writeError(ctx, xhttp.StatusUnprocessableEntity, "from must be YYYY-MM-DD")
		return
	}
	to, ok := queryDate(ctx, "to")
	if !ok {
		writeError(ctx, xhttp.StatusUnprocessableEntity, "to must be YYYY-MM-DD")
		return
	}
	report, err := h.reader.RevenueCumulative(ctx, from, to)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toRevenueResponse(report))
}

func (h *ReportHandler) Summary(ctx *xhttp.RequestCtx) {
	summary, err := h.reader.Summary(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, summaryResponse{
		Total:  money(summary.Total),
		Petrol: money(summary.Petrol),
		Diesel: money(summary.Diesel),
		Loss7:  money(summary.Loss7),
	})
}

func (h *ReportHandler) UnitsSeries(ctx *xhttp.RequestCtx) {
	h.series(ctx, h.reader.UnitsSeries, false, false)
}

func (h *ReportHandler) UnitsSeriesByRate(ctx *xhttp.RequestCtx) {
	h.series(ctx, h.reader.UnitsSeriesByRate, true, false)
}

func (h *ReportHandler) UnitsSeriesRunning(ctx *xhttp.RequestCtx) {
	h.series(ctx, h.reader.UnitsSeriesRunning, false, true)
}

func (h *ReportHandler) series(ctx *xhttp.RequestCtx, fetch func(context.Context, model.FuelType) ([]model.SeriesPoint, error), withRate, withRunning bool) {
	fuel, ok := pathFuel(ctx, "fuelType")
	if !ok {
		writeError(ctx, xhttp.StatusUnprocessableEntity, "fuel type must be petrol or diesel")
		return
	}
	points, err := fetch(ctx, fuel)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	out := make([]seriesPointResponse, len(points))
	for i, p := range points {
		out[i] = seriesPointResponse{
			Date:    dateStr(p.Date),
			Units:   money(p.Units),
			Revenue: money(p.Revenue),
		}
		if withRate {
			rate := money(p.UnitRate)
			out[i].UnitRate = &rate
		}
		if withRunning {
			running := money(p.TotalRevenue)
			out[i].TotalRevenue = &running
		}
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}
