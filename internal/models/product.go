package models

import "time"

// Gender is the audience a product is made for.
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderKid    Gender = "kid"
	GenderUnisex Gender = "unisex"
)

// Genders lists every accepted Gender value.
var Genders = []Gender{GenderMen, GenderWomen, GenderKid, GenderUnisex}

// Product represents a catalog entry. Images are owned exclusively by the product.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string         `json:"title" gorm:"type:text;not null"`
	Price       float64        `json:"price" gorm:"not null;default:0"`
	Description string         `json:"description" gorm:"type:text"`
	Slug        string         `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Stock       int            `json:"stock" gorm:"not null;default:0"`
	Sizes       []string       `json:"sizes" gorm:"type:text;serializer:json"`
	Gender      Gender         `json:"gender" gorm:"type:varchar(10);not null"`
	Tags        []string       `json:"tags" gorm:"type:text;serializer:json"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	UserID      string         `json:"user_id" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProductImage is a single image URL belonging to a product.
type ProductImage struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	URL       string `json:"url" gorm:"type:text;not null"`
	Position  int    `json:"position" gorm:"not null;default:0"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);index;not null"`
}

// ImageURLs returns the product's image URLs in order.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// NewImages builds image records for the given URLs, preserving their order.
func NewImages(productID string, urls []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for i, u := range urls {
		images = append(images, ProductImage{URL: u, Position: i, ProductID: productID})
	}
	return images
}
