package repositories

import (
	"context"

	"teslo/internal/models"
)

// ProductRepository defines data access for products and their images.
//
// Products returned by the finders always carry their images ordered by
// position. Update never touches images; callers replace them through
// DeleteOwnedImages and InsertImages inside WithTransaction.
type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindBySlugOrTitle(ctx context.Context, term string) (*models.Product, error)
	List(ctx context.Context, offset, limit int) ([]models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	DeleteOwnedImages(ctx context.Context, productID string) error
	InsertImages(ctx context.Context, productID string, images []models.ProductImage) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	WithTransaction(ctx context.Context, fn func(repo ProductRepository) error) error
}
