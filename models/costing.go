package models

import (
	"time"

	"gorm.io/gorm"
)

// Costing is the financial breakdown for an order. FinalCost is derived
// from the seven components and recomputed on every save; it is never
// trusted from caller input.
//
// No rounding or currency-precision policy is applied beyond float64
// addition.
type Costing struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	OrderID         uint    `gorm:"not null;index" json:"orderId"`
	FabricCost      float64 `gorm:"default:0" json:"fabricCost"`
	Trim            float64 `gorm:"default:0" json:"trim"`
	PackagingWithYY float64 `gorm:"default:0" json:"packagingWithYY"`
	WashingCost     float64 `gorm:"default:0" json:"washingCost"`
	Testing         float64 `gorm:"default:0" json:"testing"`
	CutMakingCost   float64 `gorm:"default:0" json:"cutMakingCost"`
	Overheads       float64 `gorm:"default:0" json:"overheads"`
	FinalCost       float64 `gorm:"default:0" json:"finalCost"`

	IsApproved      bool      `gorm:"not null;default:false" json:"isApproved"`
	CostingSheet    FileRef   `gorm:"embedded;embeddedPrefix:costing_sheet_" json:"costingSheet"`
	LastUpdatedByID *uint     `json:"lastUpdatedBy"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Costing model
func (Costing) TableName() string {
	return "costings"
}

// ComputeFinalCost returns the sum of the seven cost components
func (c *Costing) ComputeFinalCost() float64 {
	return c.FabricCost +
		c.Trim +
		c.PackagingWithYY +
		c.WashingCost +
		c.Testing +
		c.CutMakingCost +
		c.Overheads
}

// BeforeSave recalculates FinalCost so it can never drift from its inputs
func (c *Costing) BeforeSave(tx *gorm.DB) error {
	c.FinalCost = c.ComputeFinalCost()
	return nil
}
