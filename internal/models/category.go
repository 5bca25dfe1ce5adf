package models

import "time"

// Catalog reference models: categories and wood types (essences de bois).
// Both carry a display color used by the UI for chips/badges.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;unique" json:"name"` // ex: Planches, Quincaillerie
	Color     string    `gorm:"size:20" json:"color"`        // ex: #8d6e63
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WoodType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;unique" json:"name"` // ex: Chêne, Hêtre, MDF
	Color     string    `gorm:"size:20" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
