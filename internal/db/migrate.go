package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/menuiserie-app/backend/internal/models"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = logrus.WithField("component", "db")

// ConnectAndMigrate opens the database and brings the schema up to date.
// DATABASE_DSN selects postgres; when empty a local sqlite file is used so
// the app can run without any infrastructure (dev convenience).
func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	if dsn == "" {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "menuiserie.db"
		}
		log.WithField("path", path).Info("DATABASE_DSN empty, using sqlite")
		conn, err = gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	} else {
		for i := 0; i < 10; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			log.WithError(err).Warn("retrying DB connection...")
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect database after retries: %w", err)
		}
	}

	// Basic connectivity test
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if dsn != "" {
		masked := dsn
		if strings.Contains(masked, "password=") {
			re := regexp.MustCompile(`(password=)([^\s]+)`)
			masked = re.ReplaceAllString(masked, `${1}***`)
		}
		log.WithField("dsn", masked).Info("connected")
	}

	// If MIGRATIONS=1 (or true) run sql migrations via golang-migrate
	// (postgres only); otherwise AutoMigrate (dev convenience and sqlite).
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); dsn != "" && (v == "1" || v == "true" || v == "yes") {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrateAll(conn); err != nil {
			return nil, err
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"users", "categories", "wood_types", "purchases", "sales"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Seeding only when explicitly requested (e.g. development) via DB_SEED=1|true
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(conn)
	}
	return conn, nil
}

// AutoMigrateAll migrates every model; shared with test setups.
func AutoMigrateAll(conn *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.Role{}, &models.User{}, &models.Category{}, &models.WoodType{},
		&models.Purchase{}, &models.PurchaseItem{}, &models.Sale{}, &models.SaleItem{},
		&models.AuditLog{},
	}
	for _, m := range modelsToMigrate {
		if migErr := conn.AutoMigrate(m); migErr != nil {
			return fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return nil
}

func seed(conn *gorm.DB) {
	baseRoles := []models.Role{
		{Name: "admin", Description: "Accès complet"},
		{Name: "vendeur", Description: "Ventes et consultation du stock"},
		{Name: "magasinier", Description: "Achats et inventaire"},
	}
	for _, r := range baseRoles {
		var existing models.Role
		if err := conn.Where("name = ?", r.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			conn.Create(&r)
		}
	}
	baseCategories := []models.Category{
		{Name: "Planches", Color: "#8d6e63"},
		{Name: "Panneaux", Color: "#a1887f"},
		{Name: "Quincaillerie", Color: "#78909c"},
	}
	for _, c := range baseCategories {
		var existing models.Category
		if err := conn.Where("name = ?", c.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			conn.Create(&c)
		}
	}
	baseWoodTypes := []models.WoodType{
		{Name: "Chêne", Color: "#6d4c41"},
		{Name: "Hêtre", Color: "#bcaaa4"},
		{Name: "MDF", Color: "#90a4ae"},
	}
	for _, wt := range baseWoodTypes {
		var existing models.WoodType
		if err := conn.Where("name = ?", wt.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			conn.Create(&wt)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
