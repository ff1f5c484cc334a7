package models

import "time"

// TechpackIteration tracks tech-pack fit iterations for an order and holds
// the current techpack document (PDF/ZIP). A new file may be uploaded on
// each iteration.
type TechpackIteration struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	OrderID                 uint       `gorm:"not null;index" json:"orderId"`
	InitialTPDate           *time.Time `json:"initialTPDate"`
	FirstFitSubmissionDate  *time.Time `json:"firstFitSubmissionDate"`
	SecondFitSubmissionDate *time.Time `json:"secondFitSubmissionDate"`
	PPApprovalDate          *time.Time `json:"ppApprovalDate"`
	TechpackFile            FileRef    `gorm:"embedded;embeddedPrefix:techpack_file_" json:"techpackFile"`
	LastUpdatedByID         *uint      `json:"lastUpdatedBy"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the TechpackIteration model
func (TechpackIteration) TableName() string {
	return "techpack_iterations"
}
