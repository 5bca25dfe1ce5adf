package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/menuiserie-app/backend/internal/db"
	"github.com/menuiserie-app/backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrateAll(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func uintp(v uint) *uint { return &v }

func seedLedgers(t *testing.T, conn *gorm.DB) {
	t.Helper()
	cats := []models.Category{
		{Name: "Planches", Color: "#8d6e63"},
		{Name: "Quincaillerie", Color: "#78909c"},
	}
	for i := range cats {
		if err := conn.Create(&cats[i]).Error; err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	wood := models.WoodType{Name: "Chêne", Color: "#6d4c41"}
	if err := conn.Create(&wood).Error; err != nil {
		t.Fatalf("seed wood type: %v", err)
	}

	p1 := models.Purchase{
		Supplier: "Scierie Atlas",
		Date:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Items: []models.PurchaseItem{
			{ProductName: "Planche", Quantity: 10, UnitPrice: dh(50), CategoryID: uintp(cats[0].ID)},
			{ProductName: "Vis", Quantity: 100, UnitPrice: dh(1), CategoryID: uintp(cats[1].ID)},
		},
	}
	p2 := models.Purchase{
		Supplier: "Scierie Atlas",
		Date:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Items: []models.PurchaseItem{
			{ProductName: "Planche", Quantity: 5, UnitPrice: dh(55), CategoryID: uintp(cats[0].ID)},
		},
	}
	for _, p := range []*models.Purchase{&p1, &p2} {
		if err := conn.Create(p).Error; err != nil {
			t.Fatalf("seed purchase: %v", err)
		}
	}
	s1 := models.Sale{
		Client: "Atelier Benani",
		Date:   time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Items: []models.SaleItem{
			{ProductName: "Planche", Quantity: 12, UnitPrice: dh(80), CategoryID: uintp(cats[0].ID)},
			{ProductName: "Vis", Quantity: 40, UnitPrice: dh(2)}, // no category tag
		},
	}
	if err := conn.Create(&s1).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
}

func TestServiceCategoryStock(t *testing.T) {
	conn := setupTestDB(t)
	seedLedgers(t, conn)
	svc := NewService(NewGormLedger(conn))

	all, err := svc.CategoryStock(context.Background(), nil, DefaultThreshold)
	if err != nil {
		t.Fatalf("category stock: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 aggregates got %d", len(all))
	}
	byName := map[string]ProductStock{}
	for _, ps := range all {
		byName[ps.Name] = ps
	}
	planche := byName["Planche"]
	if planche.AvailableQty != 3 || !planche.IsLowStock || planche.Severity != SeverityLow {
		t.Fatalf("Planche: expected available=3 low, got %+v", planche)
	}
	if !planche.LastUnitPrice.Equal(dh(55)) {
		t.Fatalf("Planche: expected last price 55, got %s", planche.LastUnitPrice)
	}
	// The untagged Vis sale resolves to the category-2 aggregate by name.
	vis := byName["Vis"]
	if vis.AvailableQty != 60 {
		t.Fatalf("Vis: expected available=60, got %d", vis.AvailableQty)
	}

	scoped, err := svc.CategoryStock(context.Background(), intp(1), DefaultThreshold)
	if err != nil {
		t.Fatalf("scoped stock: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Name != "Planche" {
		t.Fatalf("expected only Planche in category 1, got %+v", scoped)
	}
}

func TestServiceStockAlerts(t *testing.T) {
	conn := setupTestDB(t)
	seedLedgers(t, conn)
	// Oversell Vis to produce a critical anomaly.
	extra := models.Sale{
		Client: "Chantier Oued",
		Date:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Items:  []models.SaleItem{{ProductName: "Vis", Quantity: 70, UnitPrice: dh(2)}},
	}
	if err := conn.Create(&extra).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	svc := NewService(NewGormLedger(conn))

	res, err := svc.StockAlerts(context.Background(), DefaultThreshold)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(res.Critical) != 1 || res.Critical[0].Name != "Vis" || res.Critical[0].AvailableQty != -10 {
		t.Fatalf("expected Vis critical at -10, got %+v", res.Critical)
	}
	if len(res.Low) != 1 || res.Low[0].Name != "Planche" {
		t.Fatalf("expected Planche low, got %+v", res.Low)
	}
	// The report excludes the oversold product.
	if len(res.Report) != 1 || res.Report[0].Name != "Planche" {
		t.Fatalf("report must exclude negatives, got %+v", res.Report)
	}
}

func TestServiceRollups(t *testing.T) {
	conn := setupTestDB(t)
	seedLedgers(t, conn)
	// One untagged purchase feeds the uncategorized bucket.
	p := models.Purchase{
		Supplier: "Divers",
		Date:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Items:    []models.PurchaseItem{{ProductName: "Chute", Quantity: 3, UnitPrice: dh(5)}},
	}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
	svc := NewService(NewGormLedger(conn))

	rollups, err := svc.Rollups(context.Background(), DefaultThreshold)
	if err != nil {
		t.Fatalf("rollups: %v", err)
	}
	if len(rollups) != 3 {
		t.Fatalf("expected 2 categories + uncategorized, got %d", len(rollups))
	}
	if rollups[0].Name != "Planches" || rollups[1].Name != "Quincaillerie" {
		t.Fatalf("expected alphabetical categories, got %s / %s", rollups[0].Name, rollups[1].Name)
	}
	last := rollups[len(rollups)-1]
	if last.ID != UncategorizedID || last.TotalProducts != 1 {
		t.Fatalf("expected uncategorized bucket with Chute, got %+v", last)
	}
}

func TestServiceSuggestions(t *testing.T) {
	conn := setupTestDB(t)
	seedLedgers(t, conn)
	svc := NewService(NewGormLedger(conn))

	got, err := svc.Suggestions(context.Background(), "plan")
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(got) != 1 || got[0].ProductName != "Planche" {
		t.Fatalf("expected Planche suggestion, got %+v", got)
	}
	if got[0].CategoryName != "Planches" {
		t.Fatalf("expected display category, got %q", got[0].CategoryName)
	}
	if got[0].AvailableQty != 3 {
		t.Fatalf("expected available=3, got %d", got[0].AvailableQty)
	}
}

type failingLedger struct{}

func (failingLedger) PurchaseLines(context.Context) ([]PurchaseLine, error) {
	return nil, errors.New("connection refused")
}
func (failingLedger) SaleLines(context.Context) ([]SaleLine, error) { return nil, nil }
func (failingLedger) Categories(context.Context) ([]Category, error) { return nil, nil }
func (failingLedger) WoodTypes(context.Context) ([]WoodType, error) { return nil, nil }

func TestServiceLedgerUnavailable(t *testing.T) {
	svc := NewService(failingLedger{})
	if _, err := svc.CategoryStock(context.Background(), nil, DefaultThreshold); !errors.Is(err, ErrLedgerUnavailable) {
		t.Fatalf("expected ErrLedgerUnavailable, got %v", err)
	}
	if _, err := svc.Suggestions(context.Background(), ""); !errors.Is(err, ErrLedgerUnavailable) {
		t.Fatalf("expected ErrLedgerUnavailable, got %v", err)
	}
}
