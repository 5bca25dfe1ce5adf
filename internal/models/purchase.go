package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase models. A purchase is the append-only source of truth for what a
// product is (category, wood type, latest price); items are never edited in
// place, only the whole parent purchase is deleted/replaced.
type Purchase struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Supplier  string         `gorm:"index" json:"supplier"` // fournisseur
	Date      time.Time      `gorm:"not null;index" json:"date"`
	Items     []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type PurchaseItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PurchaseID  uint            `gorm:"not null;index" json:"purchase_id"`
	ProductName string          `gorm:"not null;index" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"` // en DH
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	WoodTypeID  *uint           `gorm:"index" json:"wood_type_id"`
	WoodType    *WoodType       `gorm:"foreignKey:WoodTypeID" json:"wood_type,omitempty"`
}
