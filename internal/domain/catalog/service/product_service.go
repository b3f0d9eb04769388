package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cypher6783/gasOrder/internal/domain/catalog/model"
	"github.com/cypher6783/gasOrder/internal/domain/catalog/repository"
	"github.com/cypher6783/gasOrder/internal/pkg/apperr"
	"github.com/cypher6783/gasOrder/pkg/cache"
	"github.com/cypher6783/gasOrder/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 缓存键常量
const (
	productCacheKeyPrefix = "product:"
	productCacheTTL       = time.Minute * 10
)

// ProductService 商品读服务
type ProductService interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

// cachedProductService 带缓存的商品读服务
// 缓存只服务于店面展示；下单时的库存校验始终走数据库事务，
// 所以库存变动不需要同步失效缓存
type cachedProductService struct {
	repo  repository.ProductRepository
	cache cache.CacheService
}

func NewProductService(repo repository.ProductRepository, c cache.CacheService) ProductService {
	return &cachedProductService{
		repo:  repo,
		cache: c,
	}
}

func (s *cachedProductService) productCacheKey(id string) string {
	return fmt.Sprintf("%s%s", productCacheKeyPrefix, id)
}

func (s *cachedProductService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	key := s.productCacheKey(id)

	var cached model.Product
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// 缓存故障降级为直查，不影响读路径
		logger.Log.Warn("product cache read failed", zap.String("product_id", id), zap.Error(err))
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %s not found", id)
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, key, product, productCacheTTL); err != nil {
		logger.Log.Warn("product cache write failed", zap.String("product_id", id), zap.Error(err))
	}

	return product, nil
}
