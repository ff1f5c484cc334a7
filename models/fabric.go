package models

import "time"

// Fabric tracks color development and fabric approval milestones for an
// order.
type Fabric struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	OrderID            uint       `gorm:"not null;index" json:"orderId"`
	ColorName          string     `gorm:"not null;default:'TBD'" json:"colorName"`
	PantoneCode        string     `json:"pantoneCode"`
	PantoneColorHex    string     `gorm:"default:'#FDFD96'" json:"pantoneColorHex"`
	LabDipApprovalDate *time.Time `json:"labDipApprovalDate"`
	IOBApprovalDate    *time.Time `json:"iobApprovalDate"`
	BulkInhouseDate    *time.Time `json:"bulkInhouseDate"`
	LotApprovalDate    *time.Time `json:"lotApprovalDate"`
	LastUpdatedByID    *uint      `json:"lastUpdatedBy"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Fabric model
func (Fabric) TableName() string {
	return "fabrics"
}
