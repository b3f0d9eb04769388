package repository

import (
	"github.com/cypher6783/gasOrder/internal/domain/vendors/model"

	"gorm.io/gorm"
)

type VendorRepository interface {
	GetByID(id string) (*model.Vendor, error)
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) GetByID(id string) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.db.First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}
