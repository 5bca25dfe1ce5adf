package server

import (
	"net/http"
	"time"

	"github.com/menuiserie-app/backend/httpx"
	"github.com/menuiserie-app/backend/internal/handlers"
	"github.com/menuiserie-app/backend/internal/stock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, lowStockThreshold int) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – no detail in the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Stock read paths (derived, recomputed per request)
	sh := handlers.NewStockHandler(stock.NewService(stock.NewGormLedger(db)), lowStockThreshold)
	mux.HandleFunc("/stock", get(sh.Stock))
	mux.HandleFunc("/stock/alerts", get(sh.Alerts))
	mux.HandleFunc("/stock/rollup", get(sh.Rollups))
	mux.HandleFunc("/products/suggestions", get(sh.Suggestions))

	// Ledger CRUD
	ph := handlers.NewPurchaseHandler(db)
	mux.HandleFunc("/purchases", listCreate(ph.List, ph.Create))
	mux.HandleFunc("/purchases/delete", post(ph.Delete))

	sale := handlers.NewSaleHandler(db)
	mux.HandleFunc("/sales", listCreate(sale.List, sale.Create))
	mux.HandleFunc("/sales/delete", post(sale.Delete))

	// Catalog CRUD
	ch := handlers.NewCategoryHandler(db)
	mux.HandleFunc("/categories", listCreate(ch.List, ch.Create))
	mux.HandleFunc("/categories/update", post(ch.Update))
	mux.HandleFunc("/categories/delete", post(ch.Delete))

	wh := handlers.NewWoodTypeHandler(db)
	mux.HandleFunc("/wood-types", listCreate(wh.List, wh.Create))
	mux.HandleFunc("/wood-types/delete", post(wh.Delete))

	uh := handlers.NewUserHandler(db)
	mux.HandleFunc("/users", listCreate(uh.List, uh.Create))
	mux.HandleFunc("/users/delete", post(uh.Delete))

	ah := handlers.NewAuditHandler(db)
	mux.HandleFunc("/audit", get(ah.List))

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Menuiserie API")); werr != nil {
			_ = werr
		}
	})

	return withRecover(withLogging(mux))
}

func get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}

func post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}

func listCreate(list, create http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.WithField("panic", rec).Error("handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
