package handlers

import (
	"fmt"
	"net/http"

	"github.com/menuiserie-app/backend/httpx"
	"github.com/menuiserie-app/backend/internal/models"
	"github.com/menuiserie-app/backend/validation"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleHandler struct {
	DB *gorm.DB
}

func NewSaleHandler(db *gorm.DB) *SaleHandler { return &SaleHandler{DB: db} }

type saleItemInput struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CategoryID  *uint           `json:"category_id"` // optional: saisie rapide omits it
}

type saleInput struct {
	Client string          `json:"client"`
	Date   string          `json:"date"`
	Items  []saleItemInput `json:"items"`
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	var total int64
	h.DB.Model(&models.Sale{}).Count(&total)
	var sales []models.Sale
	if err := h.DB.
		Preload("Items").
		Preload("Items.Category").
		Order("date desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&sales).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sales", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": sales, "total": total, "limit": limit, "offset": offset})
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input saleInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("date", input.Date, v)
	if len(input.Items) == 0 {
		v["items"] = "required"
	}
	for i, it := range input.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		validation.Required(prefix+"product_name", it.ProductName, v)
		validation.PositiveInt(prefix+"quantity", it.Quantity, v)
		if it.UnitPrice.IsNegative() {
			v[prefix+"unit_price"] = "must_not_be_negative"
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	date, err := parseDate(input.Date)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"date": "invalid_date"})
		return
	}

	s := models.Sale{Client: input.Client, Date: date}
	for _, it := range input.Items {
		s.Items = append(s.Items, models.SaleItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			CategoryID:  it.CategoryID,
		})
	}
	if err := h.DB.Create(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "sale_create_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "Sale", s.ID, "create", fmt.Sprintf("%d lignes, client %s", len(s.Items), s.Client))
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Sale
	if err := h.DB.First(&s, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "sale_not_found", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sale{}, id).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "sale_delete_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "Sale", id, "delete", "")
	httpx.NoContent(w)
}
