package model

import (
	"database/sql"
	"time"
)

// VendorStatus enumerates the lifecycle states of a vendor
type VendorStatus string

const (
	VendorActive   VendorStatus = "active"
	VendorInactive VendorStatus = "inactive"
)

// VendorType distinguishes buying from selling parties
type VendorType string

const (
	VendorBuyer  VendorType = "buyer"
	VendorSeller VendorType = "seller"
)

// Vendor represents a registered vendor. The updated_at column is nullable
// and serializes as {Time, Valid}, which is the shape the frontend expects.
type Vendor struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:varchar(100);index;not null"`
	GovID     string       `json:"gov_id" gorm:"type:varchar(50)"`
	Status    VendorStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	Type      VendorType   `json:"type" gorm:"type:varchar(20)"`
	UpdatedBy uint         `json:"updated_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt sql.NullTime `json:"updated_at"`
}
