package catalog

import (
	"github.com/cypher6783/gasOrder/internal/domain/catalog/handler"
	"github.com/cypher6783/gasOrder/internal/domain/catalog/repository"
	"github.com/cypher6783/gasOrder/internal/domain/catalog/service"
	"github.com/cypher6783/gasOrder/internal/pkg/registry"
	"github.com/cypher6783/gasOrder/pkg/cache"

	"github.com/gin-gonic/gin"
)

// CatalogModule 商品/库存模块
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 10
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewProductRepository(ctx.DB)
	svc := service.NewProductService(repo, cache.NewRedisCache(ctx.Redis))
	h := handler.NewProductHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ProductHandler) {
	g := r.Group("/products")
	g.GET("/:id", h.GetProduct)
}
