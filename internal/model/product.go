package model

import "time"

// Product represents the product master data. Quantity is the on-hand
// stock figure shown in the inventory views.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Quantity  float64   `json:"quantity" gorm:"default:0"`
	UserID    uint      `json:"userId" gorm:"index;comment:'User who owns/created this product'"`
	CreatedAt time.Time `json:"created_at"`
}
