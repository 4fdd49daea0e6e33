package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"teslo/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
//
// It enforces slug uniqueness and gives WithTransaction snapshot semantics:
// fn runs against a private copy which replaces the live state only when fn
// succeeds.
type MockProductRepository struct {
	products map[string]models.Product
	images   map[string]models.ProductImage
	order    map[string]int
	next     int
	mu       sync.RWMutex
	writeMu  sync.Mutex

	// FailImageInserts, when set, is returned by every InsertImages call.
	FailImageInserts error
}

var _ ProductRepository = (*MockProductRepository)(nil)

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		images:   make(map[string]models.ProductImage),
		order:    make(map[string]int),
	}
}

// Images returns every stored image record, ordered by product then position.
func (r *MockProductRepository) Images() []models.ProductImage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ProductImage, 0, len(r.images))
	for _, img := range r.images {
		out = append(out, img)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return r.order[out[i].ProductID] < r.order[out[j].ProductID]
		}
		return out[i].Position < out[j].Position
	})
	return out
}

func (r *MockProductRepository) slugTaken(slug, exceptID string) bool {
	for id, p := range r.products {
		if id != exceptID && p.Slug == slug {
			return true
		}
	}
	return false
}

// withImages returns a copy of p carrying its images; r.mu must be held.
func (r *MockProductRepository) withImages(p models.Product) *models.Product {
	out := cloneProduct(p)
	for _, img := range r.images {
		if img.ProductID == p.ID {
			out.Images = append(out.Images, img)
		}
	}
	sort.Slice(out.Images, func(i, j int) bool { return out.Images[i].Position < out.Images[j].Position })
	return &out
}

func cloneProduct(p models.Product) models.Product {
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Tags = append([]string(nil), p.Tags...)
	p.Images = nil
	return p
}

// Insert adds a new product and its images.
func (r *MockProductRepository) Insert(_ context.Context, product *models.Product) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("failed to create product: %w: Key (id)=(%s) already exists", ErrDuplicateKey, product.ID)
	}
	if r.slugTaken(product.Slug, "") {
		return fmt.Errorf("failed to create product: %w: Key (slug)=(%s) already exists", ErrDuplicateKey, product.Slug)
	}

	for i := range product.Images {
		if product.Images[i].ID == "" {
			product.Images[i].ID = uuid.New().String()
		}
		product.Images[i].ProductID = product.ID
		r.images[product.Images[i].ID] = product.Images[i]
	}
	r.products[product.ID] = cloneProduct(*product)
	r.next++
	r.order[product.ID] = r.next
	return nil
}

// FindByID returns a product by its ID.
func (r *MockProductRepository) FindByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.withImages(p), nil
}

// FindBySlugOrTitle returns the oldest product whose slug equals term or whose
// title equals term ignoring case.
func (r *MockProductRepository) FindBySlugOrTitle(_ context.Context, term string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.Product
	for _, p := range r.sorted() {
		if p.Slug == term || strings.EqualFold(p.Title, term) {
			found = r.withImages(p)
			break
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// sorted returns products in insertion order; r.mu must be held.
func (r *MockProductRepository) sorted() []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return r.order[list[i].ID] < r.order[list[j].ID] })
	return list
}

// List returns one page of products in insertion order and the total count.
func (r *MockProductRepository) List(_ context.Context, offset, limit int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted()
	page := []models.Product{}
	if offset < 0 {
		offset = 0
	}
	for i := offset; i < len(all) && i-offset < limit; i++ {
		page = append(page, *r.withImages(all[i]))
	}
	return page, int64(len(all)), nil
}

// Update modifies an existing product's fields and owner.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return ErrNotFound
	}
	if r.slugTaken(product.Slug, product.ID) {
		return fmt.Errorf("failed to update product: %w: Key (slug)=(%s) already exists", ErrDuplicateKey, product.Slug)
	}
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

// DeleteOwnedImages removes every image belonging to productID.
func (r *MockProductRepository) DeleteOwnedImages(_ context.Context, productID string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, img := range r.images {
		if img.ProductID == productID {
			delete(r.images, id)
		}
	}
	return nil
}

// InsertImages attaches images to productID.
func (r *MockProductRepository) InsertImages(_ context.Context, productID string, images []models.ProductImage) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailImageInserts != nil {
		return fmt.Errorf("failed to create images of product %s: %w", productID, r.FailImageInserts)
	}
	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("failed to create images of product %s: %w", productID, ErrNotFound)
	}
	for i := range images {
		if images[i].ID == "" {
			images[i].ID = uuid.New().String()
		}
		images[i].ProductID = productID
		r.images[images[i].ID] = images[i]
	}
	return nil
}

// Delete removes a product and its images.
func (r *MockProductRepository) Delete(_ context.Context, id string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	for imgID, img := range r.images {
		if img.ProductID == id {
			delete(r.images, imgID)
		}
	}
	delete(r.products, id)
	delete(r.order, id)
	return nil
}

// DeleteAll removes every product and image.
func (r *MockProductRepository) DeleteAll(_ context.Context) (int64, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.products))
	r.products = make(map[string]models.Product)
	r.images = make(map[string]models.ProductImage)
	r.order = make(map[string]int)
	return n, nil
}

// WithTransaction runs fn against a snapshot and publishes the snapshot only
// when fn succeeds. Other writers wait until the transaction finishes.
func (r *MockProductRepository) WithTransaction(ctx context.Context, fn func(repo ProductRepository) error) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	tx := r.snapshot()
	if err := fn(tx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	tx.mu.RLock()
	defer tx.mu.RUnlock()
	r.products = tx.products
	r.images = tx.images
	r.order = tx.order
	r.next = tx.next
	return nil
}

func (r *MockProductRepository) snapshot() *MockProductRepository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx := NewMockProductRepository()
	for id, p := range r.products {
		tx.products[id] = cloneProduct(p)
	}
	for id, img := range r.images {
		tx.images[id] = img
	}
	for id, n := range r.order {
		tx.order[id] = n
	}
	tx.next = r.next
	tx.FailImageInserts = r.FailImageInserts
	return tx
}
