package handlers

import (
	"net/http"

	"github.com/menuiserie-app/backend/httpx"
	"github.com/menuiserie-app/backend/internal/models"

	"gorm.io/gorm"
)

type AuditHandler struct {
	DB *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler { return &AuditHandler{DB: db} }

// List returns audit entries newest first, optionally filtered by entity type.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	q := h.DB.Model(&models.AuditLog{})
	if et := r.URL.Query().Get("entity_type"); et != "" {
		q = q.Where("entity_type = ?", et)
	}
	var total int64
	q.Count(&total)
	var entries []models.AuditLog
	if err := q.Order("id desc").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_audit", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": entries, "total": total, "limit": limit, "offset": offset})
}
