package handler

import (
	"net/http"

	"github.com/cypher6783/gasOrder/internal/domain/payment/gateway"
	"github.com/cypher6783/gasOrder/internal/domain/payment/service"
	"github.com/cypher6783/gasOrder/internal/pkg/apperr"
	"github.com/cypher6783/gasOrder/internal/pkg/middleware"
	"github.com/cypher6783/gasOrder/internal/pkg/worker"
	"github.com/cypher6783/gasOrder/pkg/logger"
	"github.com/cypher6783/gasOrder/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
	gw      gateway.Client
	pool    *worker.WebhookPool
}

func NewPaymentHandler(s service.PaymentService, gw gateway.Client, pool *worker.WebhookPool) *PaymentHandler {
	return &PaymentHandler{service: s, gw: gw, pool: pool}
}

type InitiatePaymentInput struct {
	OrderID string `json:"orderId" binding:"required"`
}

// InitiatePayment 买家对自己的待支付订单发起收款
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var input InitiatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	customerID := middleware.ProfileID(c)
	result, err := h.service.InitiatePayment(customerID, input.OrderID)
	if err != nil {
		writePaymentError(c, err)
		return
	}

	response.Success(c, result)
}

// Webhook 网关异步回调入口
// 先验签，再立即回 2xx 确认，处理交给后台事件池；
// 无效签名在这里就被拒掉，永远到不了支付引擎
func (h *PaymentHandler) Webhook(c *gin.Context) {
	signature := c.GetHeader("x-paystack-signature")
	if signature == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidSignature, "no signature provided")
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "unable to read request body")
		return
	}

	if !h.gw.VerifyWebhookSignature(raw, signature) {
		logger.Log.Warn("webhook: invalid signature, rejected")
		response.Error(c, http.StatusBadRequest, response.ErrInvalidSignature, "invalid signature")
		return
	}

	h.pool.Enqueue(raw)
	c.Status(http.StatusOK)
}

// VerifyPayment 买家从网关托管页回跳后的同步核验
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	data, err := h.service.VerifyPayment(c.Param("reference"))
	if err != nil {
		writePaymentError(c, err)
		return
	}

	response.Success(c, data)
}

// writePaymentError 业务错误映射为响应码
func writePaymentError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		response.Error(c, http.StatusNotFound, response.ErrPaymentNotFound, err.Error())
	case apperr.KindInvalidState:
		response.Error(c, http.StatusBadRequest, response.ErrPaymentCompleted, err.Error())
	case apperr.KindPermissionDenied:
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
	case apperr.KindExternalService:
		// 网关失败对买家就是"稍后重试"
		response.Error(c, http.StatusBadGateway, response.ErrGatewayFailed, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
