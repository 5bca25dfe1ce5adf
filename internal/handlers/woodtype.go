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

type WoodTypeHandler struct {
	DB *gorm.DB
}

func NewWoodTypeHandler(db *gorm.DB) *WoodTypeHandler { return &WoodTypeHandler{DB: db} }

func (h *WoodTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	var wts []models.WoodType
	if err := h.DB.Order("name asc").Find(&wts).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_wood_types", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, wts)
}

func (h *WoodTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
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
	wt := models.WoodType{Name: strings.TrimSpace(input.Name), Color: input.Color}
	if err := h.DB.Create(&wt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "wood_type_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "wood_type_create_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "WoodType", wt.ID, "create", wt.Name)
	httpx.JSON(w, http.StatusCreated, wt)
}

func (h *WoodTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var wt models.WoodType
	if err := h.DB.First(&wt, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "wood_type_not_found", nil)
		return
	}
	if err := h.DB.Delete(&models.WoodType{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "wood_type_delete_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "WoodType", id, "delete", wt.Name)
	httpx.NoContent(w)
}
