package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/menuiserie-app/backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedger reads the ledgers from the relational store. Line order is
// (parent document date, line id) ascending, which the aggregator treats as
// chronological.
type GormLedger struct {
	DB *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger { return &GormLedger{DB: db} }

type purchaseRow struct {
	ProductName string          `gorm:"column:product_name"`
	Quantity    int             `gorm:"column:quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price"`
	CategoryID  *uint           `gorm:"column:category_id"`
	WoodTypeID  *uint           `gorm:"column:wood_type_id"`
	Date        time.Time       `gorm:"column:date"`
}

func (l *GormLedger) PurchaseLines(ctx context.Context) ([]PurchaseLine, error) {
	var rows []purchaseRow
	err := l.DB.WithContext(ctx).
		Table("purchase_items").
		Select("purchase_items.product_name, purchase_items.quantity, purchase_items.unit_price, purchase_items.category_id, purchase_items.wood_type_id, purchases.date").
		Joins("JOIN purchases ON purchases.id = purchase_items.purchase_id").
		Order("purchases.date asc, purchase_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch purchase lines: %w", err)
	}
	out := make([]PurchaseLine, 0, len(rows))
	for _, r := range rows {
		out = append(out, PurchaseLine{
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			CategoryID:  uintPtr(r.CategoryID),
			WoodTypeID:  uintPtr(r.WoodTypeID),
			Date:        r.Date,
		})
	}
	return out, nil
}

type saleRow struct {
	ProductName string `gorm:"column:product_name"`
	Quantity    int    `gorm:"column:quantity"`
	CategoryID  *uint  `gorm:"column:category_id"`
}

func (l *GormLedger) SaleLines(ctx context.Context) ([]SaleLine, error) {
	var rows []saleRow
	err := l.DB.WithContext(ctx).
		Table("sale_items").
		Select("sale_items.product_name, sale_items.quantity, sale_items.category_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Order("sales.date asc, sale_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch sale lines: %w", err)
	}
	out := make([]SaleLine, 0, len(rows))
	for _, r := range rows {
		out = append(out, SaleLine{
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			CategoryID:  uintPtr(r.CategoryID),
		})
	}
	return out, nil
}

func (l *GormLedger) Categories(ctx context.Context) ([]Category, error) {
	var recs []models.Category
	if err := l.DB.WithContext(ctx).Order("name asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	out := make([]Category, 0, len(recs))
	for _, c := range recs {
		out = append(out, Category{ID: int(c.ID), Name: c.Name, Color: c.Color})
	}
	return out, nil
}

func (l *GormLedger) WoodTypes(ctx context.Context) ([]WoodType, error) {
	var recs []models.WoodType
	if err := l.DB.WithContext(ctx).Order("name asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("fetch wood types: %w", err)
	}
	out := make([]WoodType, 0, len(recs))
	for _, wt := range recs {
		out = append(out, WoodType{ID: int(wt.ID), Name: wt.Name, Color: wt.Color})
	}
	return out, nil
}

func uintPtr(v *uint) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
