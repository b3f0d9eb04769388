package order

import (
	catalogRepo "github.com/cypher6783/gasOrder/internal/domain/catalog/repository"
	customerRepo "github.com/cypher6783/gasOrder/internal/domain/customer/repository"
	"github.com/cypher6783/gasOrder/internal/domain/order/handler"
	"github.com/cypher6783/gasOrder/internal/domain/order/repository"
	"github.com/cypher6783/gasOrder/internal/domain/order/service"
	"github.com/cypher6783/gasOrder/internal/domain/payment/gateway"
	paymentRepo "github.com/cypher6783/gasOrder/internal/domain/payment/repository"
	paymentService "github.com/cypher6783/gasOrder/internal/domain/payment/service"
	vendorRepo "github.com/cypher6783/gasOrder/internal/domain/vendors/repository"
	"github.com/cypher6783/gasOrder/internal/pkg/config"
	"github.com/cypher6783/gasOrder/internal/pkg/middleware"
	"github.com/cypher6783/gasOrder/internal/pkg/registry"
	"github.com/cypher6783/gasOrder/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 订单模块依赖支付引擎做托管释放，晚于支付模块初始化
	return 30
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	oRepo := repository.NewOrderRepository(ctx.DB)
	pRepo := catalogRepo.NewProductRepository(ctx.DB)
	vRepo := vendorRepo.NewVendorRepository(ctx.DB)
	cRepo := customerRepo.NewCustomerRepository(ctx.DB)

	// 支付引擎是订单管理的叶子依赖，只向这个方向引用
	cfg := config.GlobalConfig.Paystack
	gw := gateway.NewPaystackClient(cfg.BaseURL, cfg.SecretKey)
	escrow := paymentService.NewPaymentService(
		paymentRepo.NewPaymentRepository(ctx.DB), cRepo, gw, cfg.CallbackURL,
	)

	oService := service.NewOrderService(oRepo, pRepo, vRepo, cRepo, escrow)
	oHandler := handler.NewOrderHandler(oService)

	setupRoutes(ctx.Router, oHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/orders")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("", middleware.RequireRole(utils.RoleCustomer), h.CreateOrder)
		g.GET("", h.ListOrders)
		g.GET("/:id", h.GetOrder)
		g.PATCH("/:id/status", middleware.RequireRole(utils.RoleVendor), h.UpdateStatus)
		g.POST("/:id/cancel", middleware.RequireRole(utils.RoleCustomer), h.CancelOrder)
	}
}
