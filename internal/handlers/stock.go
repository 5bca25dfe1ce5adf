package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/menuiserie-app/backend/httpx"
	"github.com/menuiserie-app/backend/internal/stock"
)

// StockHandler exposes the four reconciliation read paths. Stock is never
// stored: every request recomputes from a fresh ledger snapshot.
type StockHandler struct {
	Svc              *stock.Service
	DefaultThreshold int
}

func NewStockHandler(svc *stock.Service, defaultThreshold int) *StockHandler {
	if defaultThreshold < 0 {
		defaultThreshold = stock.DefaultThreshold
	}
	return &StockHandler{Svc: svc, DefaultThreshold: defaultThreshold}
}

// threshold reads ?threshold=, rejecting negatives; second return is false
// when the param is invalid (response already written).
func (h *StockHandler) threshold(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("threshold")
	if v == "" {
		return h.DefaultThreshold, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_threshold", nil)
		return 0, false
	}
	return n, true
}

func (h *StockHandler) writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, stock.ErrLedgerUnavailable) {
		// Retryable: the ledgers could not be read, no partial view exists.
		httpx.JSONError(w, http.StatusServiceUnavailable, "ledger_unavailable", nil)
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "stock_computation_failed", nil)
}

// Stock handles GET /stock?category_id=&threshold=.
func (h *StockHandler) Stock(w http.ResponseWriter, r *http.Request) {
	threshold, ok := h.threshold(w, r)
	if !ok {
		return
	}
	var categoryID *int
	if v := r.URL.Query().Get("category_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_category_id", nil)
			return
		}
		categoryID = &n
	}
	items, err := h.Svc.CategoryStock(r.Context(), categoryID, threshold)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "threshold": threshold})
}

// Alerts handles GET /stock/alerts?threshold=.
func (h *StockHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	threshold, ok := h.threshold(w, r)
	if !ok {
		return
	}
	res, err := h.Svc.StockAlerts(r.Context(), threshold)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Rollups handles GET /stock/rollup?threshold=.
func (h *StockHandler) Rollups(w http.ResponseWriter, r *http.Request) {
	threshold, ok := h.threshold(w, r)
	if !ok {
		return
	}
	rollups, err := h.Svc.Rollups(r.Context(), threshold)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rollups)
}

// Suggestions handles GET /products/suggestions?q=.
func (h *StockHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.Suggestions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}
