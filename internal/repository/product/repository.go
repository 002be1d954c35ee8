package product

import (
	"context"

	"kaaswinkel/internal/domain"
)

type Repository interface {
	// List returns catalog rows ordered by name. activeOnly hides disabled
	// products for the public shop.
	List(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, p domain.Product) error

	SaveImage(ctx context.Context, img domain.ProductImage, productID string) (string, error)
	GetImage(ctx context.Context, id string) (*domain.ProductImage, error)
}
