package handlers

import (
	"context"

	"github.com/sarmadgill/pump-ledger/internal/model"
	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
)

type TyreGateway interface {
	RecordTyreSale(ctx context.Context, req model.TyreSaleRequest) (*model.Tyre, error)
}

type TyreReader interface {
	ListStock(ctx context.Context) ([]model.Tyre, error)
}

type TyreHandler struct {
	gw     TyreGateway
	reader TyreReader
}

func NewTyreHandler(gw TyreGateway, reader TyreReader) *TyreHandler {
	return &TyreHandler{gw: gw, reader: reader}
}

func RegisterTyreRoutes(r *xhttp.Router, h *TyreHandler) {
	r.GET("/tyre_stock", h.ListStock)
	r.POST("/tyre/sale", h.RecordSale)
}

type tyreSaleRequest struct {
	ID        int64 `json:"id"`
	UnitsSold int64 `json:"units_sold"`
}

type tyreResponse struct {
	ID             int64   `json:"id"`
	Tyre           string  `json:"tyre"`
	BuyingPrice    float64 `json:"buying_price"`
	AvailableStock int64   `json:"available_stock"`
	SoldUnits      int64   `json:"sold_units"`
}

func toTyreResponse(t model.Tyre) tyreResponse {
	return tyreResponse{
		ID:             t.ID,
		Tyre:           t.Name,
		BuyingPrice:    money(t.BuyingPrice),
		AvailableStock: t.AvailableStock,
		SoldUnits:      t.SoldUnits,
	}
}

func (h *TyreHandler) ListStock(ctx *xhttp.RequestCtx) {
	stock, err := h.reader.ListStock(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	out := make([]tyreResponse, len(stock))
	for i, t := range stock {
		out[i] = toTyreResponse(t)
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}

func (h *TyreHandler) RecordSale(ctx *xhttp.RequestCtx) {
	var req tyreSaleRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	tyre, err := h.gw.RecordTyreSale(ctx, model.TyreSaleRequest{
		TyreID:    req.ID,
		UnitsSold: req.UnitsSold,
	})
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toTyreResponse(*tyre))
}
