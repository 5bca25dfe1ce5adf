package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/menuiserie-app/backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.WithField("component", "handlers")

// recordAudit writes one audit row; failures are logged, never surfaced
// (audit must not break the mutation that succeeded).
func recordAudit(db *gorm.DB, userID uint, entityType string, entityID uint, action, details string) {
	entry := models.AuditLog{
		RequestID:  uuid.NewString(),
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.WithError(err).Warn("audit write failed")
	}
}

// pagination reads limit/page query params the same way across list handlers.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}

// parseDate accepts a bare date or full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func queryID(r *http.Request) (uint, bool) {
	v := r.URL.Query().Get("id")
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}
