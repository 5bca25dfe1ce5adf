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

type PurchaseHandler struct {
	DB *gorm.DB
}

func NewPurchaseHandler(db *gorm.DB) *PurchaseHandler { return &PurchaseHandler{DB: db} }

type purchaseItemInput struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CategoryID  *uint           `json:"category_id"`
	WoodTypeID  *uint           `json:"wood_type_id"`
}

type purchaseInput struct {
	Supplier string              `json:"supplier"`
	Date     string              `json:"date"`
	Items    []purchaseItemInput `json:"items"`
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	var total int64
	h.DB.Model(&models.Purchase{}).Count(&total)
	var purchases []models.Purchase
	if err := h.DB.
		Preload("Items").
		Preload("Items.Category").
		Preload("Items.WoodType").
		Order("date desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&purchases).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_purchases", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": purchases, "total": total, "limit": limit, "offset": offset})
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input purchaseInput
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

	p := models.Purchase{Supplier: input.Supplier, Date: date}
	for _, it := range input.Items {
		p.Items = append(p.Items, models.PurchaseItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			CategoryID:  it.CategoryID,
			WoodTypeID:  it.WoodTypeID,
		})
	}
	if err := h.DB.Create(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purchase_create_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "Purchase", p.ID, "create", fmt.Sprintf("%d lignes, fournisseur %s", len(p.Items), p.Supplier))
	httpx.JSON(w, http.StatusCreated, p)
}

// Delete removes a purchase and its items. Items are never edited in place:
// correcting a purchase means deleting and re-entering it.
func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Purchase
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "purchase_not_found", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&models.PurchaseItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Purchase{}, id).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purchase_delete_failed", nil)
		return
	}
	recordAudit(h.DB, 0, "Purchase", id, "delete", "")
	httpx.NoContent(w)
}
