package ports

import (
	"context"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/product"
)

// ProductRepository exposes the catalog facts the order engine needs.
type ProductRepository interface {
	Add(ctx context.Context, aggregate *product.Product) error

	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetForUpdateSorted locks the given products in ascending id order and
	// returns them keyed by id. A missing product is an errs.ObjectNotFoundError.
	GetForUpdateSorted(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*product.Product, error)

	// UpdateStock writes the stock of a product loaded in the same unit of work.
	UpdateStock(ctx context.Context, aggregate *product.Product) error
}
