package models

import "time"

// Notification types
const (
	NotificationCostingApproved = "COSTING_APPROVED"
	NotificationNewComment      = "NEW_COMMENT"
)

// Notification is an append-only record addressed to the "other side" of an
// order: when a merchant acts, the assigned factory is notified, and vice
// versa.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipientId"`
	SenderID    uint      `gorm:"not null" json:"senderId"`
	Sender      User      `gorm:"foreignKey:SenderID" json:"sender"`
	OrderID     uint      `gorm:"not null;index" json:"orderId"`
	Order       Order     `gorm:"foreignKey:OrderID" json:"order"`
	Type        string    `gorm:"not null" json:"type"`
	Message     string    `gorm:"not null" json:"message"`
	IsRead      bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
