package models

import "time"

// Audit logging
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestID  string    `gorm:"size:36;index" json:"request_id"` // uuid de corrélation
	UserID     uint      `gorm:"index" json:"user_id"`            // qui a fait la modification
	EntityType string    `gorm:"index" json:"entity_type"`        // ex: "Purchase", "Sale", "Category"
	EntityID   uint      `json:"entity_id"`
	Action     string    `json:"action"` // create, update, delete
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}
