package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/menuiserie-app/backend/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrateAll(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(conn, 5)
}

func TestHealthEndpoints(t *testing.T) {
	h := setupRouter(t)
	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["status"] != "ok" {
			t.Fatalf("%s: unexpected body %v", path, body)
		}
	}
}

func TestMethodGuards(t *testing.T) {
	h := setupRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/stock", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
	req2 := httptest.NewRequest(http.MethodDelete, "/purchases", nil)
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req2)
	if w2.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w2.Code)
	}
}

func TestEndToEndPurchaseToStock(t *testing.T) {
	h := setupRouter(t)

	create := func(path, body string) {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("POST %s: expected 201 got %d: %s", path, w.Code, w.Body.String())
		}
	}
	create("/categories", `{"name":"Planches","color":"#8d6e63"}`)
	create("/purchases", `{"supplier":"Scierie Atlas","date":"2026-01-10","items":[{"product_name":"Planche","quantity":15,"unit_price":55,"category_id":1}]}`)
	create("/sales", `{"client":"Atelier Benani","date":"2026-02-01","items":[{"product_name":"Planche","quantity":12,"unit_price":80,"category_id":1}]}`)

	req := httptest.NewRequest(http.MethodGet, "/stock/alerts", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("alerts: expected 200 got %d", w.Code)
	}
	var res struct {
		Low []struct {
			ProductName  string `json:"product_name"`
			AvailableQty int    `json:"available_qty"`
		} `json:"low"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Low) != 1 || res.Low[0].ProductName != "Planche" || res.Low[0].AvailableQty != 3 {
		t.Fatalf("expected Planche low at 3, got %+v", res.Low)
	}
}
