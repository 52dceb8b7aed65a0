// Package productrepo persists the catalog facts the order engine reads:
// price, owning shop and stock.
package productrepo

import (
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the database structure for persisting products.
type ProductDTO struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShopID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name   string          `gorm:"type:varchar(255);not null"`
	Price  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Stock  int             `gorm:"not null;check:stock >= 0"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:     p.ID().Bytes(),
		ShopID: p.ShopID().Bytes(),
		Name:   p.Name(),
		Price:  p.Price().Decimal(),
		Stock:  p.Stock(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	return product.NewProduct(id, shopID, dto.Name, price, dto.Stock)
}
