package repository

import (
	"github.com/cypher6783/gasOrder/internal/domain/customer/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	GetByID(id string) (*model.Customer, error)
	GetAddress(addressID, customerID string) (*model.Address, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(id string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetAddress 按地址和归属买家查询，归属不符视同不存在
func (r *customerRepository) GetAddress(addressID, customerID string) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("id = ? AND customer_id = ?", addressID, customerID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}
