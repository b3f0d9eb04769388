package repository

import (
	"time"

	catalogModel "github.com/cypher6783/gasOrder/internal/domain/catalog/model"
	"github.com/cypher6783/gasOrder/internal/domain/order/model"
	"github.com/cypher6783/gasOrder/internal/pkg/apperr"

	"gorm.io/gorm"
)

type OrderRepository interface {
	// CreateWithItems 单事务落单：写入订单和订单行，并逐项扣减库存；
	// 任一商品库存不足则整体回滚，不留下部分预留
	CreateWithItems(order *model.Order, items []model.OrderItem) error
	GetByID(id string) (*model.Order, error)
	UpdateStatus(id, status string, deliveredAt *time.Time) error
	// CancelWithRestock 单事务取消：逐项把预留数量还回库存并置 CANCELLED
	CancelWithRestock(order *model.Order) error
	ListByCustomer(customerID string, offset, limit int) ([]model.Order, int64, error)
	ListByVendor(vendorID string, offset, limit int) ([]model.Order, int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(order *model.Order, items []model.OrderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// 带守卫条件的扣减：并发下单时行锁 + stock >= quantity 保证不会扣成负数
		for _, item := range items {
			result := tx.Model(&catalogModel.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return apperr.InsufficientStock("insufficient stock for product %s", item.ProductID)
			}
		}

		order.Items = items
		return nil
	})
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(id, status string, deliveredAt *time.Time) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if deliveredAt != nil {
		updates["delivered_at"] = deliveredAt
	}
	return r.db.Model(&model.Order{}).Where("id = ?", id).Updates(updates).Error
}

func (r *orderRepository) CancelWithRestock(order *model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			err := tx.Model(&catalogModel.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Update("status", model.StatusCancelled).Error
	})
}

func (r *orderRepository) ListByCustomer(customerID string, offset, limit int) ([]model.Order, int64, error) {
	return r.list("customer_id = ?", customerID, offset, limit)
}

func (r *orderRepository) ListByVendor(vendorID string, offset, limit int) ([]model.Order, int64, error) {
	return r.list("vendor_id = ?", vendorID, offset, limit)
}

func (r *orderRepository) list(cond, arg string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := r.db.Model(&model.Order{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Items").
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
