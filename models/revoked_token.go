package models

import "time"

// RevokedToken blacklists a session credential until its natural expiry.
// Rows past ExpiresAt are dead weight and are purged opportunistically on
// insert.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"` // SHA-256 of the raw token
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the RevokedToken model
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
