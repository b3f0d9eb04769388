package model

import (
	"encoding/json"
	"time"

	baseModel "github.com/cypher6783/gasOrder/pkg/model"
)

// Payment 支付记录，与订单一对一（order_id 唯一）
// 重试发起支付时就地更新同一行，只换新的本地关联号，不新增行
// 状态一旦 COMPLETED 即不可变，只剩托管子状态和结算批次外键可动
type Payment struct {
	baseModel.BaseModel
	OrderID        string          `gorm:"type:uuid;uniqueIndex;not null" json:"orderId"`
	Amount         float64         `gorm:"not null" json:"amount"`
	PaymentMethod  string          `gorm:"default:'paystack'" json:"paymentMethod"`
	TransactionRef string          `gorm:"not null" json:"transactionRef"` // 本地生成的关联号
	GatewayRef     string          `json:"gatewayRef"`                     // 网关返回的引用
	Status         string          `gorm:"default:'PENDING'" json:"status"`
	EscrowState    string          `gorm:"default:'PENDING'" json:"escrowState"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	Metadata       json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"` // 网关回传的审计报文
	PayoutID       *string         `gorm:"type:uuid;index" json:"payoutId,omitempty"`
}

// Payout 结算批次：某卖家名下一批已释放托管资金的聚合
// 创建后不再变更，只有状态随外部打款方事件推进（不在本核心范围内）
type Payout struct {
	baseModel.BaseModel
	VendorID  string  `gorm:"type:uuid;index;not null" json:"vendorId"`
	Amount    float64 `gorm:"not null" json:"amount"`
	Reference string  `gorm:"uniqueIndex;not null" json:"reference"`
	Status    string  `gorm:"default:'PENDING'" json:"status"`
}

// 支付状态：PENDING → COMPLETED；PENDING → FAILED（终态）
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// 托管子状态：只允许 PENDING → HELD → RELEASED 单向推进
// HELD/RELEASED 仅在支付 COMPLETED 后出现
const (
	EscrowPending  = "PENDING"
	EscrowHeld     = "HELD"
	EscrowReleased = "RELEASED"
)

// 结算批次状态
const (
	PayoutStatusPending = "PENDING"
)
