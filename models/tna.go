package models

import "time"

// TNA is the Time-and-Action schedule for an order: production milestone
// dates agreed with the buyer. It exists only as long as its parent order.
type TNA struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	OrderID            uint       `gorm:"not null;index" json:"orderId"`
	GreigeCommit       *time.Time `json:"greigeCommit"`
	ColorCommit        *time.Time `json:"colorCommit"`
	PPApproval         *time.Time `json:"ppApproval"`
	CutDate            *time.Time `json:"cutDate"`
	GACDate            *time.Time `json:"gacDate"`
	TNAClosedWithBuyer *time.Time `json:"tnaClosedWithBuyer"`
	LastUpdatedByID    *uint      `json:"lastUpdatedBy"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the TNA model
func (TNA) TableName() string {
	return "tnas"
}
