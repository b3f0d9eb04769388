package payment

import (
	customerRepo "github.com/cypher6783/gasOrder/internal/domain/customer/repository"
	"github.com/cypher6783/gasOrder/internal/domain/payment/gateway"
	"github.com/cypher6783/gasOrder/internal/domain/payment/handler"
	"github.com/cypher6783/gasOrder/internal/domain/payment/repository"
	"github.com/cypher6783/gasOrder/internal/domain/payment/service"
	"github.com/cypher6783/gasOrder/internal/pkg/config"
	"github.com/cypher6783/gasOrder/internal/pkg/middleware"
	"github.com/cypher6783/gasOrder/internal/pkg/registry"
	"github.com/cypher6783/gasOrder/internal/pkg/worker"
	"github.com/cypher6783/gasOrder/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentModule 支付/托管模块
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig.Paystack

	pRepo := repository.NewPaymentRepository(ctx.DB)
	cRepo := customerRepo.NewCustomerRepository(ctx.DB)
	gw := gateway.NewPaystackClient(cfg.BaseURL, cfg.SecretKey)

	pService := service.NewPaymentService(pRepo, cRepo, gw, cfg.CallbackURL)

	// 回调事件池：边界层确认收货后异步处理（4 个 worker，缓冲 256）
	pool := worker.NewWebhookPool(pService.HandleWebhookEvent, 4, 256)
	pool.Start()

	pHandler := handler.NewPaymentHandler(pService, gw, pool)
	setupRoutes(ctx.Router, pHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	g := r.Group("/payments")

	// 网关回调（无需鉴权，但必须验签）
	g.POST("/webhook", h.Webhook)

	// 需要鉴权的接口
	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/initiate", middleware.RequireRole(utils.RoleCustomer), h.InitiatePayment)
		auth.GET("/verify/:reference", h.VerifyPayment)
	}
}
