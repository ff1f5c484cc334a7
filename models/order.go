package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status values. There is no enforced transition graph: merchants may
// set any value at any time, factories only FactoryAllowedStatuses on their
// own orders.
const (
	StatusPending      = "pending"
	StatusInProduction = "in-production"
	StatusShipped      = "shipped"
	StatusDelivered    = "delivered"
	StatusCancelled    = "cancelled"
)

// OrderStatusValues is the closed set of acceptable status values
var OrderStatusValues = []string{
	StatusPending,
	StatusInProduction,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// FactoryAllowedStatuses are the only statuses a factory caller may set
var FactoryAllowedStatuses = []string{StatusShipped, StatusDelivered}

// IsValidOrderStatus reports whether s is one of the known status values
func IsValidOrderStatus(s string) bool {
	for _, v := range OrderStatusValues {
		if v == s {
			return true
		}
	}
	return false
}

// FileRef points at an uploaded blob in S3. Embedded with a prefix so each
// attachment gets its own url/key column pair.
type FileRef struct {
	URL   string `json:"url"`
	S3Key string `json:"s3Key"`
}

// Present reports whether the reference points at an uploaded file
func (f FileRef) Present() bool {
	return f.S3Key != ""
}

// Order is the aggregate root of the production workflow. It exclusively
// owns its four sub-documents (TNA, Fabric, TechpackIteration, Costing),
// which are created with it and never recreated.
type Order struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StyleNumber   string    `gorm:"uniqueIndex;not null" json:"styleNumber"`
	BuyerName     string    `gorm:"not null" json:"buyerName"`
	OrderQuantity int       `gorm:"not null" json:"orderQuantity"`
	ShipmentDate  time.Time `gorm:"not null" json:"shipmentDate"`
	Season        string    `gorm:"not null" json:"season"`

	PreviewPhoto FileRef `gorm:"embedded;embeddedPrefix:preview_photo_" json:"previewPhoto"`
	// FabricSketch is a shared field: any sub-document update may overwrite
	// it as a side effect of its own edit form. Last writer wins.
	FabricSketch FileRef `gorm:"embedded;embeddedPrefix:fabric_sketch_" json:"fabricSketch"`

	MerchantID uint  `gorm:"not null;index" json:"merchantId"`
	Merchant   User  `gorm:"foreignKey:MerchantID" json:"merchant"`
	FactoryID  uint  `gorm:"not null;index" json:"factoryId"`
	Factory    User  `gorm:"foreignKey:FactoryID" json:"factory"`

	// Sub-document links, set once at creation time
	TNAID      uint               `json:"tnaId"`
	TNA        *TNA               `gorm:"foreignKey:TNAID" json:"tna,omitempty"`
	FabricID   uint               `json:"fabricId"`
	Fabric     *Fabric            `gorm:"foreignKey:FabricID" json:"fabric,omitempty"`
	TechpackID uint               `json:"techpackId"`
	Techpack   *TechpackIteration `gorm:"foreignKey:TechpackID" json:"techpackDetails,omitempty"`
	CostingID  uint               `json:"costingId"`
	Costing    *Costing           `gorm:"foreignKey:CostingID" json:"costing,omitempty"`

	Status    string         `gorm:"not null;default:'pending'" json:"status"`
	IsActive  bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
