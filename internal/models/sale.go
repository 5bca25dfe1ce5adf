package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale models. Sale items may omit the category tag (saisie rapide) and never
// carry a wood type; stock reconciliation resolves them back to purchase
// aggregates by name when needed.
type Sale struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Client    string     `gorm:"index" json:"client"`
	Date      time.Time  `gorm:"not null;index" json:"date"`
	Items     []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type SaleItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SaleID      uint            `gorm:"not null;index" json:"sale_id"`
	ProductName string          `gorm:"not null;index" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
