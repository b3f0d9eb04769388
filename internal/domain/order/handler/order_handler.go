package handler

import (
	"net/http"

	"github.com/cypher6783/gasOrder/internal/domain/order/service"
	"github.com/cypher6783/gasOrder/internal/pkg/apperr"
	"github.com/cypher6783/gasOrder/internal/pkg/middleware"
	"github.com/cypher6783/gasOrder/pkg/response"
	"github.com/cypher6783/gasOrder/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type CreateOrderInput struct {
	VendorID  string                   `json:"vendorId" binding:"required"`
	AddressID string                   `json:"addressId" binding:"required"`
	Items     []service.OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder 买家下单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	customerID := middleware.ProfileID(c)
	order, err := h.service.CreateOrder(customerID, input.VendorID, input.AddressID, input.Items)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	response.Created(c, order)
}

// GetOrder 订单详情，仅限订单双方和管理员
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Param("id"))
	if err != nil {
		writeOrderError(c, err)
		return
	}

	profileID := middleware.ProfileID(c)
	role, _ := c.Get("role")
	if role != utils.RoleAdmin && order.CustomerID != profileID && order.VendorID != profileID {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "not your order")
		return
	}

	response.Success(c, order)
}

// ListOrders 按角色列出自己的订单
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	// 归一化分页参数
	_, limit := p.GetPageOffset()

	profileID := middleware.ProfileID(c)
	role, _ := c.Get("role")

	var orders interface{}
	var total int64
	var err error

	switch role {
	case utils.RoleCustomer:
		orders, total, err = h.service.GetCustomerOrders(profileID, p.Page, limit)
	case utils.RoleVendor:
		orders, total, err = h.service.GetVendorOrders(profileID, p.Page, limit)
	default:
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "unsupported role")
		return
	}
	if err != nil {
		writeOrderError(c, err)
		return
	}

	response.Success(c, utils.PageResult{
		List:  orders,
		Total: total,
		Page:  p.Page,
		Limit: limit,
	})
}

// UpdateStatus 卖家推进订单状态
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	vendorID := middleware.ProfileID(c)
	order, err := h.service.UpdateOrderStatus(c.Param("id"), vendorID, input.Status)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrder 买家取消待支付订单
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	customerID := middleware.ProfileID(c)
	order, err := h.service.CancelOrder(c.Param("id"), customerID)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// writeOrderError 业务错误映射为响应码
func writeOrderError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
	case apperr.KindInvalidState:
		response.Error(c, http.StatusBadRequest, response.ErrOrderInvalidState, err.Error())
	case apperr.KindInsufficientStock:
		response.Error(c, http.StatusBadRequest, response.ErrInsufficientStock, err.Error())
	case apperr.KindPermissionDenied:
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
