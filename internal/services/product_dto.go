package services

import "teslo/internal/models"

// CreateProductRequest is the body accepted when creating a product.
type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=255"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description string   `json:"description"`
	Slug        string   `json:"slug" validate:"omitempty,max=255"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Sizes       []string `json:"sizes" validate:"required,min=1,dive,required"`
	Gender      string   `json:"gender" validate:"required,oneof=men women kid unisex"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
	Images      []string `json:"images" validate:"omitempty,dive,required"`
}

// UpdateProductRequest is a partial patch. Nil fields are left unchanged;
// a non-nil Images replaces every existing image.
type UpdateProductRequest struct {
	Title       *string   `json:"title" validate:"omitempty,notblank,max=255"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Description *string   `json:"description"`
	Slug        *string   `json:"slug" validate:"omitempty,notblank,max=255"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Sizes       *[]string `json:"sizes" validate:"omitempty,min=1,dive,required"`
	Gender      *string   `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,required"`
	Images      *[]string `json:"images" validate:"omitempty,dive,required"`
}

// PaginationQuery selects a page of the catalog. Nil fields take defaults.
type PaginationQuery struct {
	Page    *int `query:"page" json:"page" validate:"omitempty,gte=1"`
	PerPage *int `query:"per_page" json:"per_page" validate:"omitempty,gte=1"`
}

// ProductResponse is the external shape of a product: images are plain URLs.
type ProductResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Description string        `json:"description"`
	Slug        string        `json:"slug"`
	Stock       int           `json:"stock"`
	Sizes       []string      `json:"sizes"`
	Gender      models.Gender `json:"gender"`
	Tags        []string      `json:"tags"`
	Images      []string      `json:"images"`
	OwnerID     string        `json:"owner_id"`
}

// ProductListResponse is one page of the catalog.
type ProductListResponse struct {
	Count    int64             `json:"count"`
	Products []ProductResponse `json:"products"`
}

// toProductResponse is the only place a stored product is flattened for output.
func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       nonNil(p.Sizes),
		Gender:      p.Gender,
		Tags:        nonNil(p.Tags),
		Images:      p.ImageURLs(),
		OwnerID:     p.UserID,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string(nil), s...)
}
