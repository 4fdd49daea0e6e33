// Package seed resets the catalog to a fixed set of demo products.
package seed

import (
	"context"
	"fmt"

	"teslo/internal/models"
	"teslo/internal/services"

	"go.uber.org/zap"
)

// Catalog is the part of the product service Run drives.
type Catalog interface {
	DeleteAll(ctx context.Context) (int64, error)
	Create(ctx context.Context, req services.CreateProductRequest, actor *models.User) (*services.ProductResponse, error)
}

type seedProduct struct {
	title       string
	description string
	price       float64
	stock       int
	sizes       []string
	gender      models.Gender
	tags        []string
	images      []string
}

var products = []seedProduct{
	{
		title:       "Men's Chill Crew Neck Sweatshirt",
		description: "Introducing the Tesla Chill Collection. The Men's Chill Crew Neck Sweatshirt has a premium, heavyweight exterior and soft fleece interior.",
		price:       75,
		stock:       7,
		sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		gender:      models.GenderMen,
		tags:        []string{"sweatshirt"},
		images:      []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"},
	},
	{
		title:       "Men's Quilted Shirt Jacket",
		description: "The Men's Quilted Shirt Jacket features a uniquely fit, quilted design for warmth and mobility in cold weather seasons.",
		price:       200,
		stock:       5,
		sizes:       []string{"XS", "S", "M", "XL", "XXL"},
		gender:      models.GenderMen,
		tags:        []string{"jacket"},
		images:      []string{"1740507-00-A_0_2000.jpg", "1740507-00-A_1.jpg"},
	},
	{
		title:       "Men's Raven Lightweight Zip Up Bomber Jacket",
		description: "Introducing the Tesla Raven Collection. The Men's Raven Lightweight Zip Up Bomber has a premium, modern silhouette made from a sustainable bamboo cotton blend.",
		price:       130,
		stock:       10,
		sizes:       []string{"S", "M", "L", "XL", "XXL"},
		gender:      models.GenderMen,
		tags:        []string{"shirt"},
		images:      []string{"1740250-00-A_0_2000.jpg", "1740250-00-A_1.jpg"},
	},
	{
		title:       "Men's Turbine Long Sleeve Tee",
		description: "Introducing the Tesla Turbine Collection. Designed for style, comfort and everyday lifestyle.",
		price:       45,
		stock:       50,
		sizes:       []string{"XS", "S", "M", "L"},
		gender:      models.GenderMen,
		tags:        []string{"shirt"},
		images:      []string{"1740280-00-A_0_2000.jpg", "1740280-00-A_1.jpg"},
	},
	{
		title:       "Women's Cropped Puffer Jacket",
		description: "The Women's Cropped Puffer Jacket features a uniquely cropped silhouette for the perfect, modern style while on the go.",
		price:       225,
		stock:       85,
		sizes:       []string{"XS", "S", "M"},
		gender:      models.GenderWomen,
		tags:        []string{"hoodie"},
		images:      []string{"1740535-00-A_0_2000.jpg", "1740535-00-A_1.jpg"},
	},
	{
		title:       "Women's Chill Half Zip Cropped Hoodie",
		description: "Introducing the Tesla Chill Collection. The Women's Chill Half Zip Cropped Hoodie has a premium, soft fleece exterior and cropped silhouette.",
		price:       130,
		stock:       10,
		sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		gender:      models.GenderWomen,
		tags:        []string{"hoodie"},
		images:      []string{"1740226-00-A_0_2000.jpg", "1740226-00-A_1.jpg"},
	},
	{
		title:       "Kids Cyberquad Bomber Jacket",
		description: "Wear your Kids Cyberquad Bomber Jacket during your adventures on Cyberquad for Kids.",
		price:       65,
		stock:       10,
		sizes:       []string{"XS", "S", "M"},
		gender:      models.GenderKid,
		tags:        []string{"shirt"},
		images:      []string{"1742702-00-A_0_2000.jpg", "1742702-00-A_1.jpg"},
	},
	{
		title:       "Kids Scribble T-Shirt",
		description: "The Kids Scribble T-Shirt is made from 100% Peruvian cotton and features a Tesla T sketched logo for every young artist to wear.",
		price:       25,
		stock:       0,
		sizes:       []string{"XS", "S", "M"},
		gender:      models.GenderKid,
		tags:        []string{"shirt"},
		images:      []string{"8529312-00-A_0_2000.jpg", "8529312-00-A_1.jpg"},
	},
	{
		title:       "Tesla Logo Trucker Hat",
		description: "The Tesla Logo Trucker Hat has a structured six-panel build with a snapback closure.",
		price:       30,
		stock:       15,
		sizes:       []string{"M"},
		gender:      models.GenderUnisex,
		tags:        []string{"hat"},
		images:      []string{"1657891-00-A_0_2000.jpg"},
	},
}

// Size is the number of products Run inserts.
func Size() int { return len(products) }

// Run wipes the catalog and inserts the seed products owned by actor.
func Run(ctx context.Context, catalog Catalog, actor *models.User, logger *zap.Logger) (int, error) {
	deleted, err := catalog.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}

	for i, p := range products {
		price, stock := p.price, p.stock
		req := services.CreateProductRequest{
			Title:       p.title,
			Description: p.description,
			Price:       &price,
			Stock:       &stock,
			Sizes:       p.sizes,
			Gender:      string(p.gender),
			Tags:        p.tags,
			Images:      p.images,
		}
		if _, err := catalog.Create(ctx, req, actor); err != nil {
			return i, fmt.Errorf("seed %q: %w", p.title, err)
		}
	}

	logger.Info("catalog seeded",
		zap.Int64("deleted", deleted),
		zap.Int("inserted", len(products)),
		zap.String("owner_id", actor.ID),
	)
	return len(products), nil
}
