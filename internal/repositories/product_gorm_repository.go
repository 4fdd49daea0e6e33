package repositories

import (
	"context"
	"errors"
	"fmt"

	"teslo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productColumns are the columns written by Update.
var productColumns = []string{
	"title", "price", "description", "slug", "stock",
	"sizes", "gender", "tags", "user_id", "updated_at",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

var _ ProductRepository = (*GORMProductRepository)(nil)

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Insert creates the product and all of its images in one statement batch.
func (r *GORMProductRepository) Insert(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for i := range product.Images {
		if product.Images[i].ID == "" {
			product.Images[i].ID = uuid.New().String()
		}
		product.Images[i].ProductID = product.ID
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a single product by its ID.
func (r *GORMProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Take(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// FindBySlugOrTitle matches the slug exactly or the title case-insensitively.
// When several titles match, the oldest product wins.
func (r *GORMProductRepository) FindBySlugOrTitle(ctx context.Context, term string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Where("LOWER(title) = LOWER(?) OR slug = ?", term, term).
		Order("created_at ASC, id ASC").
		Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by term %s: %w", term, err)
	}
	return &product, nil
}

// List returns one page of products in creation order and the total count.
func (r *GORMProductRepository) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	err := db.Preload("Images", orderedImages).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Update writes the product's scalar fields and owner. Images are left alone.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Select(productColumns).
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOwnedImages removes every image belonging to productID.
func (r *GORMProductRepository) DeleteOwnedImages(ctx context.Context, productID string) error {
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductImage{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete images of product %s: %w", productID, err)
	}
	return nil
}

// InsertImages attaches images to productID.
func (r *GORMProductRepository) InsertImages(ctx context.Context, productID string, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		if images[i].ID == "" {
			images[i].ID = uuid.New().String()
		}
		images[i].ProductID = productID
	}
	if err := r.db.WithContext(ctx).Create(&images).Error; err != nil {
		return fmt.Errorf("failed to create images of product %s: %w", productID, err)
	}
	return nil
}

// Delete removes a product and its images.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of product %s: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteAll removes every product and image, returning the number of products deleted.
func (r *GORMProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete all images: %w", err)
		}
		res := all.Delete(&models.Product{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete all products: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// WithTransaction runs fn against a repository bound to a single database
// transaction. The transaction commits when fn returns nil and rolls back otherwise.
func (r *GORMProductRepository) WithTransaction(ctx context.Context, fn func(repo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMProductRepository{db: tx})
	})
}
