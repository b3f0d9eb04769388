package model

import (
	baseModel "github.com/cypher6783/gasOrder/pkg/model"
)

// Product 商品（气瓶规格），Stock 是库存账本的权威计数
// 库存只会在下单/取消订单的事务内变动
type Product struct {
	baseModel.BaseModel
	VendorID    string  `gorm:"type:uuid;index;not null" json:"vendorId"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`
}
