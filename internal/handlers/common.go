package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
)

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy onto HTTP codes. Anything
// unrecognized is an internal error and its detail stays out of the
// response.
func writeDomainError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case apperr.IsValidation(err):
		writeError(ctx, xhttp.StatusUnprocessableEntity, err.Error())
	case apperr.IsNotFound(err):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case apperr.IsConflict(err):
		writeError(ctx, xhttp.StatusConflict, err.Error())
	case apperr.IsConsistency(err):
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	default:
		writeError(ctx, xhttp.StatusInternalServerError, "internal error")
	}
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(v, 10, 64)
}

func pathFuel(ctx *xhttp.RequestCtx, name string) (model.FuelType, bool) {
	v, _ := ctx.UserValue(name).(string)
	fuel := model.FuelType(v)
	return fuel, fuel.Valid()
}

// money rounds for presentation. Only the handler boundary rounds;
// everything upstream carries full precision.
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func dateStr(t time.Time) string {
	return t.Format(model.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, s)
}

// queryDate reads an optional YYYY-MM-DD query arg. Absent means nil;
// a present but malformed value fails.
func queryDate(ctx *xhttp.RequestCtx, name string) (*time.Time, bool) {
	raw := string(ctx.QueryArgs().Peek(name))
	if raw == "" {
		return nil, true
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
