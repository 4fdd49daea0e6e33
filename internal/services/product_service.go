package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"teslo/internal/models"
	"teslo/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultPerPage is the page size used when the caller gives none.
	DefaultPerPage = 5
	// MaxPerPage caps the page size a caller may request.
	MaxPerPage = 100
)

// ErrUnauthenticated is returned when a write has no acting user.
var ErrUnauthenticated = errors.New("authentication required")

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	repo           repositories.ProductRepository
	logger         *zap.Logger
	events         EventPublisher
	cache          ProductCache
	cacheGen       atomic.Uint64 // bumped by every invalidation
	defaultPerPage int
	maxPerPage     int
}

// ProductOption configures a ProductService.
type ProductOption func(*ProductService)

// WithEvents publishes an event after every successful write.
func WithEvents(p EventPublisher) ProductOption {
	return func(s *ProductService) { s.events = p }
}

// WithCache caches plain lookups and invalidates them on writes.
func WithCache(c ProductCache) ProductOption {
	return func(s *ProductService) { s.cache = c }
}

// WithPageSize overrides the default and maximum page sizes.
func WithPageSize(def, max int) ProductOption {
	return func(s *ProductService) {
		s.defaultPerPage = def
		s.maxPerPage = max
	}
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, logger *zap.Logger, opts ...ProductOption) *ProductService {
	s := &ProductService{
		repo:           repo,
		logger:         logger.Named("products"),
		defaultPerPage: DefaultPerPage,
		maxPerPage:     MaxPerPage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// isUUID reports whether s is a UUID in canonical 8-4-4-4-12 form.
func isUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// Create validates req and stores a new product with its images.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, actor *models.User) (*ProductResponse, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	slugSource := req.Slug
	if slugSource == "" {
		slugSource = req.Title
	}
	productSlug := deriveSlug(slugSource)
	if productSlug == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "slug", Message: "could not be derived from the title"}}}
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Slug:        productSlug,
		Sizes:       req.Sizes,
		Gender:      models.Gender(req.Gender),
		Tags:        req.Tags,
		UserID:      actor.ID,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.Images = models.NewImages(product.ID, req.Images)

	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, classifyStoreError(s.logger, "create product", err)
	}

	s.invalidate(ctx)
	s.publish(ProductEvent{Type: EventProductCreated, ID: product.ID, Slug: product.Slug, OwnerID: product.UserID})

	resp := toProductResponse(product)
	return &resp, nil
}

// List returns one page of products along with the total number of products.
func (s *ProductService) List(ctx context.Context, q PaginationQuery) (*ProductListResponse, error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}
	page, perPage := 1, s.defaultPerPage
	if q.Page != nil {
		page = *q.Page
	}
	if q.PerPage != nil {
		perPage = *q.PerPage
	}
	if perPage > s.maxPerPage {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "per_page",
			Message: fmt.Sprintf("must be less than or equal to %d", s.maxPerPage),
		}}}
	}

	// Pages past math.MaxInt rows cannot exist; an offset at the limit
	// yields the empty page without wrapping negative.
	offset := math.MaxInt
	if page-1 <= math.MaxInt/perPage {
		offset = (page - 1) * perPage
	}

	products, total, err := s.repo.List(ctx, offset, perPage)
	if err != nil {
		return nil, classifyStoreError(s.logger, "list products", err)
	}

	resp := &ProductListResponse{
		Count:    total,
		Products: make([]ProductResponse, 0, len(products)),
	}
	for i := range products {
		resp.Products = append(resp.Products, toProductResponse(&products[i]))
	}
	return resp, nil
}

// FindOne resolves term as an ID when it is a UUID, otherwise as a slug or a
// case-insensitive title. The result carries its image records.
func (s *ProductService) FindOne(ctx context.Context, term string) (*models.Product, error) {
	var (
		product *models.Product
		err     error
	)
	if isUUID(term) {
		product, err = s.repo.FindByID(ctx, term)
	} else {
		product, err = s.repo.FindBySlugOrTitle(ctx, term)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Product", Key: term}
		}
		return nil, classifyStoreError(s.logger, "find product", err)
	}
	return product, nil
}

// FindOnePlain is FindOne flattened to the external shape.
//
// A lookup that overlaps an invalidation drops what it cached, so a write
// committed during the read is never shadowed by the older row.
func (s *ProductService) FindOnePlain(ctx context.Context, term string) (*ProductResponse, error) {
	var gen uint64
	if s.cache != nil {
		gen = s.cacheGen.Load()
		var cached ProductResponse
		hit, err := s.cache.Get(ctx, term, &cached)
		if err != nil {
			s.logger.Warn("product cache read failed", zap.String("term", term), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	product, err := s.FindOne(ctx, term)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product)

	if s.cache != nil && s.cacheGen.Load() == gen {
		if err := s.cache.Set(ctx, term, resp); err != nil {
			s.logger.Warn("product cache write failed", zap.String("term", term), zap.Error(err))
		}
		if s.cacheGen.Load() != gen {
			if err := s.cache.Delete(ctx, term); err != nil {
				s.logger.Warn("failed to drop stale product cache entry", zap.String("term", term), zap.Error(err))
			}
		}
	}
	return &resp, nil
}

// Update patches the product with the given ID inside one transaction. A
// non-nil req.Images replaces all existing images, and the acting user
// always becomes the owner.
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest, actor *models.User) (*ProductResponse, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var newSlug string
	if req.Slug != nil {
		newSlug = deriveSlug(*req.Slug)
		if newSlug == "" {
			return nil, &ValidationError{Fields: []FieldError{{Field: "slug", Message: "must contain letters or digits"}}}
		}
	}
	if !isUUID(id) {
		return nil, &NotFoundError{Resource: "Product", Key: id}
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.ProductRepository) error {
		product, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		applyPatch(product, req, newSlug)

		if req.Images != nil {
			if err := tx.DeleteOwnedImages(ctx, product.ID); err != nil {
				return err
			}
			if err := tx.InsertImages(ctx, product.ID, models.NewImages(product.ID, *req.Images)); err != nil {
				return err
			}
		}

		product.UserID = actor.ID
		return tx.Update(ctx, product)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Product", Key: id}
		}
		return nil, classifyStoreError(s.logger, "update product", err)
	}

	s.invalidate(ctx)

	updated, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ProductEvent{Type: EventProductUpdated, ID: updated.ID, Slug: updated.Slug, OwnerID: updated.UserID})

	resp := toProductResponse(updated)
	return &resp, nil
}

func applyPatch(p *models.Product, req UpdateProductRequest, newSlug string) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if newSlug != "" {
		p.Slug = newSlug
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Sizes != nil {
		p.Sizes = *req.Sizes
	}
	if req.Gender != nil {
		p.Gender = models.Gender(*req.Gender)
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
}

// Remove deletes the product matched by term, together with its images.
func (s *ProductService) Remove(ctx context.Context, term string) error {
	product, err := s.FindOne(ctx, term)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Resource: "Product", Key: term}
		}
		return classifyStoreError(s.logger, "delete product", err)
	}

	s.invalidate(ctx)
	s.publish(ProductEvent{Type: EventProductDeleted, ID: product.ID, Slug: product.Slug, OwnerID: product.UserID})
	return nil
}

// DeleteAll removes every product and image and returns how many products were deleted.
func (s *ProductService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, classifyStoreError(s.logger, "delete all products", err)
	}

	s.invalidate(ctx)
	s.publish(ProductEvent{Type: EventProductsPurged, Count: n})
	return n, nil
}
