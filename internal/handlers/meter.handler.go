package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
)

type MeterGateway interface {
	SubmitReadings(ctx context.Context, date time.Time, entries []model.ReadingEntry) ([]model.ReadingResult, error)
}

type MeterReader interface {
	LatestMeters(ctx context.Context) ([]model.PumpMeter, error)
	ListReadings(ctx context.Context) ([]model.ReadingRow, error)
}

type MeterHandler struct {
	gw     MeterGateway
	reader MeterReader
}

func NewMeterHandler(gw MeterGateway, reader MeterReader) *MeterHandler {
	return &MeterHandler{gw: gw, reader: reader}
}

func RegisterMeterRoutes(r *xhttp.Router, h *MeterHandler) {
	r.POST("/pumps/readings", h.SubmitReadings)
	r.GET("/pumps/latest-meters", h.LatestMeters)
	r.GET("/pump_readings", h.ListReadings)
}

type readingEntryRequest struct {
	PumpID        int64           `json:"pump_id"`
	PreviousMeter decimal.Decimal `json:"previous_meter"`
	CurrentMeter  decimal.Decimal `json:"current_meter"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
}

type submitReadingsRequest struct {
	// Optional; the entry date defaults to today.
	Date    string                `json:"date"`
	Entries []readingEntryRequest `json:"entries"`
}

type readingResultResponse struct {
	PumpID    int64   `json:"pump_id"`
	UnitsSold float64 `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

type submitReadingsResponse struct {
	Date    string                  `json:"date"`
	Results []readingResultResponse `json:"results"`
}

type pumpMeterResponse struct {
	PumpID        int64   `json:"pump_id"`
	PumpName      string  `json:"pump_name"`
	FuelType      string  `json:"fuel_type"`
	PreviousMeter float64 `json:"previous_meter"`
	UnitRate      float64 `json:"unit_rate"`
}

type readingRowResponse struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	PumpName string  `json:"pump_name"`
	FuelType string  `json:"fuel_type"`
	Units    float64 `json:"units"`
	UnitRate float64 `json:"unit_rate"`
	Amount   float64 `json:"amount"`
	Meter    float64 `json:"meter"`
}

func (h *MeterHandler) SubmitReadings(ctx *xhttp.RequestCtx) {
	var req submitReadingsRequest
	// Older clients post the entries as a bare array with no date.
	if body := bytes.TrimSpace(ctx.PostBody()); len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &req.Entries); err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	} else if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	date := model.Today()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			writeError(ctx, xhttp.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	entries := make([]model.ReadingEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = model.ReadingEntry{
			PumpID:        e.PumpID,
			PreviousMeter: e.PreviousMeter,
			CurrentMeter:  e.CurrentMeter,
			UnitRate:      e.UnitRate,
		}
	}

	results, err := h.gw.SubmitReadings(ctx, date, entries)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}

	out := make([]readingResultResponse, len(results))
	for i, r := range results {
		out[i] = readingResultResponse{
			PumpID:    r.PumpID,
			UnitsSold: money(r.UnitsSold),
			Revenue:   money(r.Revenue),
		}
	}
	writeJSON(ctx, xhttp.StatusOK, submitReadingsResponse{
		Date:    dateStr(model.Day(date)),
		Results: out,
	})
}

func (h *MeterHandler) LatestMeters(ctx *xhttp.RequestCtx) {
	meters, err := h.reader.LatestMeters(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	out := make([]pumpMeterResponse, len(meters))
	for i, m := range meters {
		out[i] = pumpMeterResponse{
			PumpID:        m.PumpID,
			PumpName:      m.PumpName,
			FuelType:      string(m.FuelType),
			PreviousMeter: money(m.PreviousMeter),
			UnitRate:      money(m.UnitRate),
		}
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}

func (h *MeterHandler) ListReadings(ctx *xhttp.RequestCtx) {
	rows, err := h.reader.ListReadings(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	out := make([]readingRowResponse, len(rows))
	for i, r := range rows {
		out[i] = readingRowResponse{
			ID:       r.ID,
			Date:     dateStr(r.Date),
			PumpName: r.PumpName,
			FuelType: string(r.FuelType),
			Units:    money(r.Units),
			UnitRate: money(r.UnitRate),
			Amount:   money(r.Amount),
			Meter:    money(r.Meter),
		}
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}
