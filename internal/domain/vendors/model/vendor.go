package model

import (
	baseModel "github.com/cypher6783/gasOrder/pkg/model"
)

// Vendor 卖家
type Vendor struct {
	baseModel.BaseModel
	UserID       string  `gorm:"type:uuid;uniqueIndex" json:"userId"`
	BusinessName string  `gorm:"not null" json:"businessName"`
	Status       string  `gorm:"default:'PENDING'" json:"status"`
	DeliveryFee  float64 `gorm:"default:0" json:"deliveryFee"`
	City         string  `json:"city"`
	State        string  `json:"state"`
}

const (
	VendorStatusPending   = "PENDING"
	VendorStatusVerified  = "VERIFIED"
	VendorStatusRejected  = "REJECTED"
	VendorStatusSuspended = "SUSPENDED"
)
