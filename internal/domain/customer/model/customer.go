package model

import (
	baseModel "github.com/cypher6783/gasOrder/pkg/model"
)

// Customer 买家
// Email 用于向支付网关发起收款
type Customer struct {
	baseModel.BaseModel
	UserID    string `gorm:"type:uuid;uniqueIndex" json:"userId"`
	Email     string `gorm:"not null" json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Address 买家收货地址
type Address struct {
	baseModel.BaseModel
	CustomerID string `gorm:"type:uuid;index;not null" json:"customerId"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	IsDefault  bool   `gorm:"default:false" json:"isDefault"`
}
