package payout

import (
	"context"

	paymentRepo "github.com/cypher6783/gasOrder/internal/domain/payment/repository"
	"github.com/cypher6783/gasOrder/internal/domain/payout/handler"
	"github.com/cypher6783/gasOrder/internal/domain/payout/service"
	"github.com/cypher6783/gasOrder/internal/pkg/config"
	"github.com/cypher6783/gasOrder/internal/pkg/middleware"
	"github.com/cypher6783/gasOrder/internal/pkg/registry"
	"github.com/cypher6783/gasOrder/internal/pkg/scheduler"
	"github.com/cypher6783/gasOrder/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PayoutModule 结算模块：每日定时跑批，也支持管理员手动触发
type PayoutModule struct{}

func init() {
	registry.Register(&PayoutModule{})
}

func (m *PayoutModule) Name() string {
	return "payout"
}

func (m *PayoutModule) Priority() int {
	return 40
}

func (m *PayoutModule) Init(ctx *registry.ModuleContext) error {
	pService := service.NewPayoutService(paymentRepo.NewPaymentRepository(ctx.DB))
	pHandler := handler.NewPayoutHandler(pService)

	cfg := config.GlobalConfig.Payout
	job := scheduler.NewDailyJob("payout-batch", cfg.Hour, cfg.Minute, func(_ context.Context) {
		_, _ = pService.ProcessPayouts()
	})
	job.Start(context.Background())

	setupRoutes(ctx.Router, pHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PayoutHandler) {
	g := r.Group("/payouts")
	g.Use(middleware.AuthMiddleware(), middleware.RequireRole(utils.RoleAdmin))
	{
		g.POST("/run", h.Run)
	}
}
