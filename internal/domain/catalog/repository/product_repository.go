package repository

import (
	"github.com/cypher6783/gasOrder/internal/domain/catalog/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	GetByID(id string) (*model.Product, error)
	// GetActiveByIDsForVendor 一次读出订单涉及的全部商品，
	// 只返回归属该卖家且上架中的
	GetActiveByIDsForVendor(ids []string, vendorID string) ([]model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetActiveByIDsForVendor(ids []string, vendorID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Where("id IN ? AND vendor_id = ? AND is_active = ?", ids, vendorID, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
