package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	catalogModel "github.com/cypher6783/gasOrder/internal/domain/catalog/model"
	catalogRepo "github.com/cypher6783/gasOrder/internal/domain/catalog/repository"
	customerRepo "github.com/cypher6783/gasOrder/internal/domain/customer/repository"
	"github.com/cypher6783/gasOrder/internal/domain/order/model"
	"github.com/cypher6783/gasOrder/internal/domain/order/repository"
	vendorModel "github.com/cypher6783/gasOrder/internal/domain/vendors/model"
	vendorRepo "github.com/cypher6783/gasOrder/internal/domain/vendors/repository"
	"github.com/cypher6783/gasOrder/internal/pkg/apperr"
	"github.com/cypher6783/gasOrder/pkg/logger"
	"github.com/cypher6783/gasOrder/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderItemInput 下单行项
type OrderItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// EscrowReleaser 支付引擎暴露给订单侧的唯一入口
// 订单管理只调用它，从不直接写托管字段
type EscrowReleaser interface {
	ReleaseEscrow(orderID string) error
}

type OrderService interface {
	CreateOrder(customerID, vendorID, addressID string, items []OrderItemInput) (*model.Order, error)
	GetOrder(orderID string) (*model.Order, error)
	GetCustomerOrders(customerID string, page, limit int) ([]model.Order, int64, error)
	GetVendorOrders(vendorID string, page, limit int) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID, vendorID, newStatus string) (*model.Order, error)
	CancelOrder(orderID, customerID string) (*model.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	products  catalogRepo.ProductRepository
	vendors   vendorRepo.VendorRepository
	customers customerRepo.CustomerRepository
	escrow    EscrowReleaser
}

func NewOrderService(
	orders repository.OrderRepository,
	products catalogRepo.ProductRepository,
	vendors vendorRepo.VendorRepository,
	customers customerRepo.CustomerRepository,
	escrow EscrowReleaser,
) OrderService {
	return &orderService{
		orders:    orders,
		products:  products,
		vendors:   vendors,
		customers: customers,
		escrow:    escrow,
	}
}

// generateOrderNumber 订单号：时间戳 + 随机后缀
// 只是唯一性标识，不承担任何安全用途；数据库上另有唯一约束兜底
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

func (s *orderService) CreateOrder(customerID, vendorID, addressID string, items []OrderItemInput) (*model.Order, error) {
	if len(items) == 0 {
		return nil, apperr.InvalidState("order must contain at least one item")
	}

	// 1. 买家存在性
	if _, err := s.customers.GetByID(customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("customer not found")
		}
		return nil, err
	}

	// 2. 卖家存在且已通过审核
	vendor, err := s.vendors.GetByID(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("vendor not found")
		}
		return nil, err
	}
	if vendor.Status != vendorModel.VendorStatusVerified {
		return nil, apperr.InvalidState("vendor is not verified")
	}

	// 3. 地址归属买家
	if _, err := s.customers.GetAddress(addressID, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("address not found or does not belong to customer")
		}
		return nil, err
	}

	// 4. 一次读出全部商品
	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.products.GetActiveByIDsForVendor(productIDs, vendorID)
	if err != nil {
		return nil, err
	}
	if len(products) != len(items) {
		return nil, apperr.NotFound("some products not found or not available")
	}

	productByID := make(map[string]catalogModel.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	// 5. 逐项校验库存并按下单时价格做快照
	// 这里的库存检查只为尽早报出具体商品；权威扣减在落单事务里
	var subtotal float64
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		product := productByID[item.ProductID]
		if product.Stock < item.Quantity {
			return nil, apperr.InsufficientStock("insufficient stock for %s", product.Name)
		}

		itemSubtotal := product.Price * float64(item.Quantity)
		subtotal += itemSubtotal
		orderItems = append(orderItems, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Subtotal:  itemSubtotal,
		})
	}

	// 6. 总价在创建时一次性算定
	order := &model.Order{
		OrderNumber:   generateOrderNumber(),
		CustomerID:    customerID,
		VendorID:      vendorID,
		AddressID:     addressID,
		Subtotal:      subtotal,
		DeliveryFee:   vendor.DeliveryFee,
		Total:         subtotal + vendor.DeliveryFee,
		Status:        model.StatusPending,
		PaymentStatus: model.StatusPending,
	}

	// 7. 落单 + 扣减库存（单事务，失败不留部分预留）
	if err := s.orders.CreateWithItems(order, orderItems); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	logger.Log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

func (s *orderService) GetOrder(orderID string) (*model.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetCustomerOrders(customerID string, page, limit int) ([]model.Order, int64, error) {
	offset := (page - 1) * limit
	return s.orders.ListByCustomer(customerID, offset, limit)
}

func (s *orderService) GetVendorOrders(vendorID string, page, limit int) ([]model.Order, int64, error) {
	offset := (page - 1) * limit
	return s.orders.ListByVendor(vendorID, offset, limit)
}

func (s *orderService) UpdateOrderStatus(orderID, vendorID, newStatus string) (*model.Order, error) {
	if !model.IsValidVendorStatus(newStatus) {
		return nil, apperr.InvalidState("invalid order status %q", newStatus)
	}

	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}

	if order.VendorID != vendorID {
		return nil, apperr.PermissionDenied("you can only update your own orders")
	}

	if !model.CanTransition(order.Status, newStatus) {
		return nil, apperr.InvalidState("cannot transition order from %s to %s", order.Status, newStatus)
	}

	var deliveredAt *time.Time
	if newStatus == model.StatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	if err := s.orders.UpdateStatus(orderID, newStatus, deliveredAt); err != nil {
		return nil, err
	}
	order.Status = newStatus
	order.DeliveredAt = deliveredAt

	// 送达即同步释放托管。释放失败不回滚状态：
	// 订单状态正确优先于托管时效，失败记日志等运维补账
	if newStatus == model.StatusDelivered {
		if err := s.escrow.ReleaseEscrow(orderID); err != nil {
			logger.Log.Error("failed to release escrow after delivery",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}

	return order, nil
}

func (s *orderService) CancelOrder(orderID, customerID string) (*model.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}

	if order.CustomerID != customerID {
		return nil, apperr.PermissionDenied("you can only cancel your own orders")
	}

	// 已确认的订单资金已被捕获，退款属于独立的补偿流程，这里直接拒绝
	if order.Status != model.StatusPending {
		return nil, apperr.InvalidState("order can only be cancelled when pending")
	}

	if err := s.orders.CancelWithRestock(order); err != nil {
		return nil, err
	}
	order.Status = model.StatusCancelled

	metrics.OrdersCancelled.Inc()
	logger.Log.Info("order cancelled", zap.String("order_id", orderID))
	return order, nil
}
