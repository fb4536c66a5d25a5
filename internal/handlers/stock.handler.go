package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
	"github.com/sarmadgill/pump-ledger/pkg/logger"
)

type StockGateway interface {
	RecordPurchase(ctx context.Context, req model.PurchaseCreateRequest) (*model.Purchase, error)
}

type StockReader interface {
	GetStock(ctx context.Context) (map[model.FuelType]model.StockLevel, error)
	ListPurchases(ctx context.Context) ([]model.Purchase, error)
}

type StockHandler struct {
	gw     StockGateway
	reader StockReader
}

func NewStockHandler(gw StockGateway, reader StockReader) *StockHandler {
	return &StockHandler{gw: gw, reader: reader}
}

func RegisterStockRoutes(r *xhttp.Router, h *StockHandler) {
	r.POST("/buying-unit-rate", h.RecordPurchase)
	r.GET("/buying-unit-rate", h.ListPurchases)
	r.GET("/fuel-stock", h.GetStock)
}

type createPurchaseRequest struct {
	Date              string          `json:"date"`
	FuelType          string          `json:"fuel_type"`
	Units             decimal.Decimal `json:"units"`
	BuyingRatePerUnit decimal.Decimal `json:"buying_rate_per_unit"`
}

type purchaseResponse struct {
	ID                int64   `json:"id"`
	Date              string  `json:"date"`
	FuelType          string  `json:"fuel_type"`
	Units             float64 `json:"units"`
	BuyingRatePerUnit float64 `json:"buying_rate_per_unit"`
	TotalUnits        float64 `json:"total_units"`
}

type stockLevelResponse struct {
	Purchased float64 `json:"purchased"`
	Sold      float64 `json:"sold"`
	Net       float64 `json:"net"`
}

func toPurchaseResponse(p model.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:                p.ID,
		Date:              dateStr(p.Date),
		FuelType:          string(p.FuelType),
		Units:             money(p.Units),
		BuyingRatePerUnit: money(p.BuyingRatePerUnit),
		TotalUnits:        money(p.TotalUnits),
	}
}

func (h *StockHandler) RecordPurchase(ctx *xhttp.RequestCtx) {
	var req createPurchaseRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(ctx, xhttp.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}
	purchase, err := h.gw.RecordPurchase(ctx, model.PurchaseCreateRequest{
		Date:              date,
		FuelType:          model.FuelType(req.FuelType),
		Units:             req.Units,
		BuyingRatePerUnit: req.BuyingRatePerUnit,
	})
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toPurchaseResponse(*purchase))
}

func (h *StockHandler) ListPurchases(ctx *xhttp.RequestCtx) {
	purchases, err := h.reader.ListPurchases(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	out := make([]purchaseResponse, len(purchases))
	for i, p := range purchases {
		out[i] = toPurchaseResponse(p)
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}

func (h *StockHandler) GetStock(ctx *xhttp.RequestCtx) {
	levels, err := h.reader.GetStock(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	out := make(map[string]stockLevelResponse, len(levels))
	for fuel, level := range levels {
		net := level.Net()
		if net.IsNegative() {
			logger.Warn("stock below zero", "fuel_type", string(fuel), "net", net.String())
		}
		out[string(fuel)] = stockLevelResponse{
			Purchased: money(level.Purchased),
			Sold:      money(level.Sold),
			Net:       money(net),
		}
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}
