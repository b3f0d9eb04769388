package model

import (
	"time"

	baseModel "github.com/cypher6783/gasOrder/pkg/model"
)

// Order 订单
// Total 在创建时一次性算定（subtotal + 配送费），之后不再重算
// PaymentStatus 是 Payment.Status 的冗余镜像，由支付引擎在确认事务内同步
type Order struct {
	baseModel.BaseModel
	OrderNumber   string      `gorm:"uniqueIndex;not null" json:"orderNumber"`
	CustomerID    string      `gorm:"type:uuid;index;not null" json:"customerId"`
	VendorID      string      `gorm:"type:uuid;index;not null" json:"vendorId"`
	AddressID     string      `gorm:"type:uuid;not null" json:"addressId"`
	Subtotal      float64     `gorm:"not null" json:"subtotal"`
	DeliveryFee   float64     `gorm:"not null" json:"deliveryFee"`
	Total         float64     `gorm:"not null" json:"total"`
	Status        string      `gorm:"default:'PENDING'" json:"status"`
	PaymentStatus string      `gorm:"default:'PENDING'" json:"paymentStatus"`
	DeliveredAt   *time.Time  `json:"deliveredAt,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem 订单行，Price 是下单时刻的单价快照
// 商品后续调价不影响历史订单
type OrderItem struct {
	baseModel.BaseModel
	OrderID   string  `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID string  `gorm:"type:uuid;not null" json:"productId"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
	Subtotal  float64 `gorm:"not null" json:"subtotal"`
}

// 订单状态机：PENDING → {CONFIRMED, CANCELLED}；CONFIRMED → {IN_TRANSIT, CANCELLED}；
// IN_TRANSIT → DELIVERED；DELIVERED / CANCELLED 为终态
// CONFIRMED 只能由支付引擎在确认收款时写入
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusInTransit = "IN_TRANSIT"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// statusTransitions 卖家可执行的前向迁移
var statusTransitions = map[string][]string{
	StatusConfirmed: {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered},
}

// CanTransition 判断卖家能否把订单从 from 迁移到 to
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValidVendorStatus 卖家状态白名单校验
func IsValidVendorStatus(status string) bool {
	switch status {
	case StatusConfirmed, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
