package repository

import (
	"encoding/json"
	"time"

	orderModel "github.com/cypher6783/gasOrder/internal/domain/order/model"
	"github.com/cypher6783/gasOrder/internal/domain/payment/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayoutCandidate 待结算支付：已释放托管且未入批
type PayoutCandidate struct {
	PaymentID string  `gorm:"column:id"`
	VendorID  string  `gorm:"column:vendor_id"`
	Amount    float64 `gorm:"column:amount"`
}

type PaymentRepository interface {
	GetByOrderID(orderID string) (*model.Payment, error)
	// GetOrderForPayment 支付侧需要的订单视图（状态、总价、买家）
	GetOrderForPayment(orderID string) (*orderModel.Order, error)
	// Upsert 按 order_id 建或更新支付行：首次创建，重试只覆盖关联号，不产生重复行
	Upsert(payment *model.Payment) error
	// ConfirmSuccess 确认收款的原子双写：支付置 COMPLETED/HELD，
	// 订单置 CONFIRMED 且镜像 paymentStatus，同一事务提交
	ConfirmSuccess(paymentID, orderID string, paidAt time.Time, metadata json.RawMessage) error
	UpdateEscrowState(paymentID, state string) error
	// ListPayoutCandidates 关联订单取出卖家维度的待结算支付
	ListPayoutCandidates() ([]PayoutCandidate, error)
	// CreatePayoutBatch 单事务建批：插入 Payout 并回填本批支付的 payout_id
	CreatePayoutBatch(payout *model.Payout, paymentIDs []string) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByOrderID(orderID string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) GetOrderForPayment(orderID string) (*orderModel.Order, error) {
	var order orderModel.Order
	if err := r.db.First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *paymentRepository) Upsert(payment *model.Payment) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"transaction_ref", "gateway_ref", "updated_at",
		}),
	}).Create(payment).Error
}

func (r *paymentRepository) ConfirmSuccess(paymentID, orderID string, paidAt time.Time, metadata json.RawMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Payment{}).
			Where("id = ?", paymentID).
			Updates(map[string]interface{}{
				"status":       model.PaymentStatusCompleted,
				"escrow_state": model.EscrowHeld,
				"paid_at":      paidAt,
				"metadata":     metadata,
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&orderModel.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":         orderModel.StatusConfirmed,
				"payment_status": model.PaymentStatusCompleted,
			}).Error
	})
}

func (r *paymentRepository) UpdateEscrowState(paymentID, state string) error {
	return r.db.Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Update("escrow_state", state).Error
}

func (r *paymentRepository) ListPayoutCandidates() ([]PayoutCandidate, error) {
	var candidates []PayoutCandidate
	err := r.db.Model(&model.Payment{}).
		Select("payments.id, payments.amount, orders.vendor_id").
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("payments.escrow_state = ? AND payments.payout_id IS NULL", model.EscrowReleased).
		Scan(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *paymentRepository) CreatePayoutBatch(payout *model.Payout, paymentIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payout).Error; err != nil {
			return err
		}

		// payout_id IS NULL 条件保证一笔支付至多进一个批次
		return tx.Model(&model.Payment{}).
			Where("id IN ? AND payout_id IS NULL", paymentIDs).
			Update("payout_id", payout.ID).Error
	})
}
