package service

import (
	"errors"
	"testing"
	"time"

	catalogModel "github.com/cypher6783/gasOrder/internal/domain/catalog/model"
	"github.com/cypher6783/gasOrder/internal/domain/customer/model"
	orderModel "github.com/cypher6783/gasOrder/internal/domain/order/model"
	vendorModel "github.com/cypher6783/gasOrder/internal/domain/vendors/model"
	"github.com/cypher6783/gasOrder/internal/pkg/apperr"
	baseModel "github.com/cypher6783/gasOrder/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(order *orderModel.Order, items []orderModel.OrderItem) error {
	args := m.Called(order, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*orderModel.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id, status string, deliveredAt *time.Time) error {
	args := m.Called(id, status, deliveredAt)
	return args.Error(0)
}

func (m *MockOrderRepository) CancelWithRestock(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByCustomer(customerID string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(customerID, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByVendor(vendorID string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(vendorID, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

// MockProductRepository is a mock of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(id string) (*catalogModel.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

func (m *MockProductRepository) GetActiveByIDsForVendor(ids []string, vendorID string) ([]catalogModel.Product, error) {
	args := m.Called(ids, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogModel.Product), args.Error(1)
}

// MockVendorRepository is a mock of VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) GetByID(id string) (*vendorModel.Vendor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendorModel.Vendor), args.Error(1)
}

// MockCustomerRepository is a mock of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetByID(id string) (*model.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetAddress(addressID, customerID string) (*model.Address, error) {
	args := m.Called(addressID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

// MockEscrowReleaser is a mock of EscrowReleaser
type MockEscrowReleaser struct {
	mock.Mock
}

func (m *MockEscrowReleaser) ReleaseEscrow(orderID string) error {
	args := m.Called(orderID)
	return args.Error(0)
}

type orderMocks struct {
	orders    *MockOrderRepository
	products  *MockProductRepository
	vendors   *MockVendorRepository
	customers *MockCustomerRepository
	escrow    *MockEscrowReleaser
}

func newOrderService() (OrderService, *orderMocks) {
	m := &orderMocks{
		orders:    new(MockOrderRepository),
		products:  new(MockProductRepository),
		vendors:   new(MockVendorRepository),
		customers: new(MockCustomerRepository),
		escrow:    new(MockEscrowReleaser),
	}
	return NewOrderService(m.orders, m.products, m.vendors, m.customers, m.escrow), m
}

func testCustomer(id string) *model.Customer {
	return &model.Customer{
		BaseModel: baseModel.BaseModel{ID: id},
		Email:     "buyer@example.com",
	}
}

func testVendor(id, status string, deliveryFee float64) *vendorModel.Vendor {
	return &vendorModel.Vendor{
		BaseModel:    baseModel.BaseModel{ID: id},
		BusinessName: "Test Gas Shop",
		Status:       status,
		DeliveryFee:  deliveryFee,
	}
}

func testProduct(id string, price float64, stock int) catalogModel.Product {
	return catalogModel.Product{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      "12kg Cylinder",
		Price:     price,
		Stock:     stock,
		IsActive:  true,
	}
}

func TestCreateOrder(t *testing.T) {
	customerID := "customer-1"
	vendorID := "vendor-1"
	addressID := "address-1"

	t.Run("Success with price snapshot and total", func(t *testing.T) {
		service, m := newOrderService()
		m.customers.On("GetByID", customerID).Return(testCustomer(customerID), nil)
		m.vendors.On("GetByID", vendorID).Return(testVendor(vendorID, vendorModel.VendorStatusVerified, 500), nil)
		m.customers.On("GetAddress", addressID, customerID).Return(&model.Address{}, nil)
		m.products.On("GetActiveByIDsForVendor", []string{"product-1", "product-2"}, vendorID).
			Return([]catalogModel.Product{
				testProduct("product-1", 8000, 10),
				testProduct("product-2", 15000, 3),
			}, nil)
		m.orders.On("CreateWithItems", mock.AnythingOfType("*model.Order"), mock.AnythingOfType("[]model.OrderItem")).Return(nil)

		order, err := service.CreateOrder(customerID, vendorID, addressID, []OrderItemInput{
			{ProductID: "product-1", Quantity: 2},
			{ProductID: "product-2", Quantity: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, float64(31000), order.Subtotal)
		assert.Equal(t, float64(500), order.DeliveryFee)
		assert.Equal(t, float64(31500), order.Total)
		assert.Equal(t, orderModel.StatusPending, order.Status)
		assert.NotEmpty(t, order.OrderNumber)
		m.orders.AssertExpectations(t)
	})

	t.Run("Empty items rejected", func(t *testing.T) {
		service, _ := newOrderService()

		_, err := service.CreateOrder(customerID, vendorID, addressID, nil)

		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})

	t.Run("Unverified vendor rejected", func(t *testing.T) {
		service, m := newOrderService()
		m.customers.On("GetByID", customerID).Return(testCustomer(customerID), nil)
		m.vendors.On("GetByID", vendorID).Return(testVendor(vendorID, vendorModel.VendorStatusPending, 0), nil)

		_, err := service.CreateOrder(customerID, vendorID, addressID, []OrderItemInput{
			{ProductID: "product-1", Quantity: 1},
		})

		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
		m.products.AssertNotCalled(t, "GetActiveByIDsForVendor", mock.Anything, mock.Anything)
	})

	t.Run("Address of another customer rejected as not found", func(t *testing.T) {
		service, m := newOrderService()
		m.customers.On("GetByID", customerID).Return(testCustomer(customerID), nil)
		m.vendors.On("GetByID", vendorID).Return(testVendor(vendorID, vendorModel.VendorStatusVerified, 0), nil)
		m.customers.On("GetAddress", addressID, customerID).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.CreateOrder(customerID, vendorID, addressID, []OrderItemInput{
			{ProductID: "product-1", Quantity: 1},
		})

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("Product of another vendor rejected", func(t *testing.T) {
		service, m := newOrderService()
		m.customers.On("GetByID", customerID).Return(testCustomer(customerID), nil)
		m.vendors.On("GetByID", vendorID).Return(testVendor(vendorID, vendorModel.VendorStatusVerified, 0), nil)
		m.customers.On("GetAddress", addressID, customerID).Return(&model.Address{}, nil)
		// 仓储按卖家过滤后只剩一个商品，数量对不上即拒单
		m.products.On("GetActiveByIDsForVendor", []string{"product-1", "foreign-product"}, vendorID).
			Return([]catalogModel.Product{testProduct("product-1", 8000, 10)}, nil)

		_, err := service.CreateOrder(customerID, vendorID, addressID, []OrderItemInput{
			{ProductID: "product-1", Quantity: 1},
			{ProductID: "foreign-product", Quantity: 1},
		})

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		m.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
	})

	t.Run("Insufficient stock names the product", func(t *testing.T) {
		service, m := newOrderService()
		m.customers.On("GetByID", customerID).Return(testCustomer(customerID), nil)
		m.vendors.On("GetByID", vendorID).Return(testVendor(vendorID, vendorModel.VendorStatusVerified, 0), nil)
		m.customers.On("GetAddress", addressID, customerID).Return(&model.Address{}, nil)
		m.products.On("GetActiveByIDsForVendor", []string{"product-1"}, vendorID).
			Return([]catalogModel.Product{testProduct("product-1", 8000, 1)}, nil)

		_, err := service.CreateOrder(customerID, vendorID, addressID, []OrderItemInput{
			{ProductID: "product-1", Quantity: 5},
		})

		assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "12kg Cylinder")
		m.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent depletion surfaces from transaction", func(t *testing.T) {
		service, m := newOrderService()
		m.customers.On("GetByID", customerID).Return(testCustomer(customerID), nil)
		m.vendors.On("GetByID", vendorID).Return(testVendor(vendorID, vendorModel.VendorStatusVerified, 0), nil)
		m.customers.On("GetAddress", addressID, customerID).Return(&model.Address{}, nil)
		m.products.On("GetActiveByIDsForVendor", []string{"product-1"}, vendorID).
			Return([]catalogModel.Product{testProduct("product-1", 8000, 5)}, nil)
		// 预检通过但事务内守卫更新失败（并发扣减走在前面）
		m.orders.On("CreateWithItems", mock.AnythingOfType("*model.Order"), mock.AnythingOfType("[]model.OrderItem")).
			Return(apperr.InsufficientStock("insufficient stock for 12kg Cylinder"))

		_, err := service.CreateOrder(customerID, vendorID, addressID, []OrderItemInput{
			{ProductID: "product-1", Quantity: 2},
		})

		assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	orderID := "order-1"
	vendorID := "vendor-1"

	confirmedOrder := func() *orderModel.Order {
		return &orderModel.Order{
			BaseModel: baseModel.BaseModel{ID: orderID},
			VendorID:  vendorID,
			Status:    orderModel.StatusConfirmed,
		}
	}

	t.Run("Confirmed to in transit", func(t *testing.T) {
		service, m := newOrderService()
		m.orders.On("GetByID", orderID).Return(confirmedOrder(), nil)
		m.orders.On("UpdateStatus", orderID, orderModel.StatusInTransit, (*time.Time)(nil)).Return(nil)

		order, err := service.UpdateOrderStatus(orderID, vendorID, orderModel.StatusInTransit)

		assert.NoError(t, err)
		assert.Equal(t, orderModel.StatusInTransit, order.Status)
		m.escrow.AssertNotCalled(t, "ReleaseEscrow", mock.Anything)
	})

	t.Run("Delivery stamps time and releases escrow", func(t *testing.T) {
		service, m := newOrderService()
		inTransit := confirmedOrder()
		inTransit.Status = orderModel.StatusInTransit
		m.orders.On("GetByID", orderID).Return(inTransit, nil)
		m.orders.On("UpdateStatus", orderID, orderModel.StatusDelivered, mock.AnythingOfType("*time.Time")).Return(nil)
		m.escrow.On("ReleaseEscrow", orderID).Return(nil)

		order, err := service.UpdateOrderStatus(orderID, vendorID, orderModel.StatusDelivered)

		assert.NoError(t, err)
		assert.Equal(t, orderModel.StatusDelivered, order.Status)
		assert.NotNil(t, order.DeliveredAt)
		m.escrow.AssertExpectations(t)
	})

	t.Run("Escrow failure does not fail delivery", func(t *testing.T) {
		service, m := newOrderService()
		inTransit := confirmedOrder()
		inTransit.Status = orderModel.StatusInTransit
		m.orders.On("GetByID", orderID).Return(inTransit, nil)
		m.orders.On("UpdateStatus", orderID, orderModel.StatusDelivered, mock.AnythingOfType("*time.Time")).Return(nil)
		m.escrow.On("ReleaseEscrow", orderID).Return(errors.New("payment row missing"))

		order, err := service.UpdateOrderStatus(orderID, vendorID, orderModel.StatusDelivered)

		assert.NoError(t, err)
		assert.Equal(t, orderModel.StatusDelivered, order.Status)
	})

	t.Run("Pending order cannot be advanced by vendor", func(t *testing.T) {
		service, m := newOrderService()
		pending := confirmedOrder()
		pending.Status = orderModel.StatusPending
		m.orders.On("GetByID", orderID).Return(pending, nil)

		_, err := service.UpdateOrderStatus(orderID, vendorID, orderModel.StatusInTransit)

		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
		m.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Backward transition rejected", func(t *testing.T) {
		service, m := newOrderService()
		inTransit := confirmedOrder()
		inTransit.Status = orderModel.StatusInTransit
		m.orders.On("GetByID", orderID).Return(inTransit, nil)

		_, err := service.UpdateOrderStatus(orderID, vendorID, orderModel.StatusCancelled)

		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})

	t.Run("Vendor cannot touch another vendors order", func(t *testing.T) {
		service, m := newOrderService()
		m.orders.On("GetByID", orderID).Return(confirmedOrder(), nil)

		_, err := service.UpdateOrderStatus(orderID, "other-vendor", orderModel.StatusInTransit)

		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("Target status outside whitelist rejected", func(t *testing.T) {
		service, _ := newOrderService()

		_, err := service.UpdateOrderStatus(orderID, vendorID, "REFUNDED")

		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})
}

func TestCancelOrder(t *testing.T) {
	orderID := "order-1"
	customerID := "customer-1"

	pendingOrder := func() *orderModel.Order {
		return &orderModel.Order{
			BaseModel:  baseModel.BaseModel{ID: orderID},
			CustomerID: customerID,
			Status:     orderModel.StatusPending,
			Items: []orderModel.OrderItem{
				{ProductID: "product-1", Quantity: 2},
			},
		}
	}

	t.Run("Pending order cancelled with restock", func(t *testing.T) {
		service, m := newOrderService()
		m.orders.On("GetByID", orderID).Return(pendingOrder(), nil)
		m.orders.On("CancelWithRestock", mock.AnythingOfType("*model.Order")).Return(nil)

		order, err := service.CancelOrder(orderID, customerID)

		assert.NoError(t, err)
		assert.Equal(t, orderModel.StatusCancelled, order.Status)
		m.orders.AssertExpectations(t)
	})

	t.Run("Confirmed order cannot be cancelled by customer", func(t *testing.T) {
		service, m := newOrderService()
		confirmed := pendingOrder()
		confirmed.Status = orderModel.StatusConfirmed
		m.orders.On("GetByID", orderID).Return(confirmed, nil)

		_, err := service.CancelOrder(orderID, customerID)

		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
		m.orders.AssertNotCalled(t, "CancelWithRestock", mock.Anything)
	})

	t.Run("Customer cannot cancel another customers order", func(t *testing.T) {
		service, m := newOrderService()
		m.orders.On("GetByID", orderID).Return(pendingOrder(), nil)

		_, err := service.CancelOrder(orderID, "other-customer")

		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
		m.orders.AssertNotCalled(t, "CancelWithRestock", mock.Anything)
	})

	t.Run("Missing order maps to not found", func(t *testing.T) {
		service, m := newOrderService()
		m.orders.On("GetByID", orderID).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.CancelOrder(orderID, customerID)

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
