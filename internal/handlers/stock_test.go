package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/menuiserie-app/backend/internal/models"
	"github.com/menuiserie-app/backend/internal/stock"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func uintp(v uint) *uint { return &v }

func seedStock(t *testing.T, conn *gorm.DB) {
	t.Helper()
	cats := []models.Category{
		{Name: "Planches", Color: "#8d6e63"},
		{Name: "Quincaillerie", Color: "#78909c"},
	}
	for i := range cats {
		if err := conn.Create(&cats[i]).Error; err != nil {
			t.Fatalf("category: %v", err)
		}
	}
	p := models.Purchase{
		Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Items: []models.PurchaseItem{
			{ProductName: "Planche", Quantity: 15, UnitPrice: decimal.NewFromInt(55), CategoryID: uintp(cats[0].ID)},
			{ProductName: "Vis", Quantity: 100, UnitPrice: decimal.NewFromInt(1), CategoryID: uintp(cats[1].ID)},
		},
	}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("purchase: %v", err)
	}
	s := models.Sale{
		Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Items: []models.SaleItem{
			{ProductName: "Planche", Quantity: 12, UnitPrice: decimal.NewFromInt(80), CategoryID: uintp(cats[0].ID)},
		},
	}
	if err := conn.Create(&s).Error; err != nil {
		t.Fatalf("sale: %v", err)
	}
}

func newStockHandler(conn *gorm.DB) *StockHandler {
	return NewStockHandler(stock.NewService(stock.NewGormLedger(conn)), stock.DefaultThreshold)
}

func TestStockEndpoint(t *testing.T) {
	conn := setupTestDB(t)
	seedStock(t, conn)
	h := newStockHandler(conn)

	req := httptest.NewRequest(http.MethodGet, "/stock", nil)
	w := httptest.NewRecorder()
	h.Stock(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Items     []stock.ProductStock `json:"items"`
		Threshold int                  `json:"threshold"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Threshold != stock.DefaultThreshold {
		t.Fatalf("expected default threshold, got %d", payload.Threshold)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(payload.Items))
	}

	// Category scope
	req2 := httptest.NewRequest(http.MethodGet, "/stock?category_id=1", nil)
	w2 := httptest.NewRecorder()
	h.Stock(w2, req2)
	var scoped struct {
		Items []stock.ProductStock `json:"items"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &scoped); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scoped.Items) != 1 || scoped.Items[0].Name != "Planche" {
		t.Fatalf("expected Planche only, got %+v", scoped.Items)
	}
	if scoped.Items[0].AvailableQty != 3 || !scoped.Items[0].IsLowStock {
		t.Fatalf("expected available=3 low, got %+v", scoped.Items[0])
	}
}

func TestStockThresholdValidation(t *testing.T) {
	conn := setupTestDB(t)
	h := newStockHandler(conn)

	req := httptest.NewRequest(http.MethodGet, "/stock?threshold=-1", nil)
	w := httptest.NewRecorder()
	h.Stock(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative threshold got %d", w.Code)
	}
	req2 := httptest.NewRequest(http.MethodGet, "/stock?threshold=abc", nil)
	w2 := httptest.NewRecorder()
	h.Stock(w2, req2)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for junk threshold got %d", w2.Code)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	conn := setupTestDB(t)
	seedStock(t, conn)
	// Oversell Vis: critical in the banner, absent from the report.
	s := models.Sale{
		Date:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []models.SaleItem{{ProductName: "Vis", Quantity: 120, UnitPrice: decimal.NewFromInt(2)}},
	}
	if err := conn.Create(&s).Error; err != nil {
		t.Fatalf("sale: %v", err)
	}
	h := newStockHandler(conn)

	req := httptest.NewRequest(http.MethodGet, "/stock/alerts", nil)
	w := httptest.NewRecorder()
	h.Alerts(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var res stock.AlertsResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Critical) != 1 || res.Critical[0].Name != "Vis" {
		t.Fatalf("expected Vis critical, got %+v", res.Critical)
	}
	if len(res.Report) != 1 || res.Report[0].Name != "Planche" {
		t.Fatalf("expected report to hold Planche only, got %+v", res.Report)
	}
}

func TestRollupEndpoint(t *testing.T) {
	conn := setupTestDB(t)
	seedStock(t, conn)
	h := newStockHandler(conn)

	req := httptest.NewRequest(http.MethodGet, "/stock/rollup", nil)
	w := httptest.NewRecorder()
	h.Rollups(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var rollups []stock.CategoryRollup
	if err := json.Unmarshal(w.Body.Bytes(), &rollups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rollups) != 2 {
		t.Fatalf("expected 2 rollups (no uncategorized), got %d", len(rollups))
	}
	if rollups[0].Name != "Planches" || rollups[0].LowStockCount != 1 {
		t.Fatalf("unexpected first rollup: %+v", rollups[0])
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	conn := setupTestDB(t)
	seedStock(t, conn)
	h := newStockHandler(conn)

	req := httptest.NewRequest(http.MethodGet, "/products/suggestions?q=vi", nil)
	w := httptest.NewRecorder()
	h.Suggestions(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var payload struct {
		Items []stock.Suggestion `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].ProductName != "Vis" {
		t.Fatalf("expected Vis suggestion, got %+v", payload.Items)
	}
	if payload.Items[0].CategoryName != "Quincaillerie" {
		t.Fatalf("expected display category, got %q", payload.Items[0].CategoryName)
	}
}

type downLedger struct{}

func (downLedger) PurchaseLines(context.Context) ([]stock.PurchaseLine, error) {
	return nil, context.DeadlineExceeded
}
func (downLedger) SaleLines(context.Context) ([]stock.SaleLine, error) { return nil, nil }
func (downLedger) Categories(context.Context) ([]stock.Category, error) { return nil, nil }
func (downLedger) WoodTypes(context.Context) ([]stock.WoodType, error)  { return nil, nil }

func TestStockLedgerUnavailableIs503(t *testing.T) {
	h := NewStockHandler(stock.NewService(downLedger{}), stock.DefaultThreshold)
	req := httptest.NewRequest(http.MethodGet, "/stock", nil)
	w := httptest.NewRecorder()
	h.Stock(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "ledger_unavailable" {
		t.Fatalf("expected ledger_unavailable, got %q", resp.Error)
	}
}
