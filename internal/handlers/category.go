package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/menuiserie-app/backend/httpx"
	"github.com/menuiserie-app/backend/internal/models"
	"github.com/menuiserie-app/backend/validation"

	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler { return &CategoryHandler{DB: db} }

type categoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var cats []models.Category
	if err := h.DB.Order("name asc").Find(&cats).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_categories", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input categoryInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.MaxLen("color", input.Color, 20, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c := models.Category{Name: strings.TrimSpace(input.Name), Color: input.Color}
	if err := h.DB.Create(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "category_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "category_create_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "Category", c.ID, "create", c.Name)
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input categoryInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var c models.Category
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "category_not_found", nil)
		return
	}
	c.Name = strings.TrimSpace(input.Name)
	c.Color = input.Color
	if err := h.DB.Save(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "category_update_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "Category", c.ID, "update", c.Name)
	httpx.JSON(w, http.StatusOK, c)
}

// Delete removes the category itself; ledger lines keep their category_id and
// simply stop resolving to a known category (they roll up as uncategorized
// display-wise only if the tag itself is null, so existing lines are left
// untouched on purpose).
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var c models.Category
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "category_not_found", nil)
		return
	}
	if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "category_delete_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "Category", id, "delete", c.Name)
	httpx.NoContent(w)
}
