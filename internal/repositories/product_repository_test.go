package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"teslo/internal/database"
	"teslo/internal/models"
	"teslo/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteProductRepository(t *testing.T) repositories.ProductRepository {
	t.Helper()
	db, err := database.OpenAndMigrate("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return repositories.NewGORMProductRepository(db)
}

func newMockProductRepository(t *testing.T) repositories.ProductRepository {
	return repositories.NewMockProductRepository()
}

// Both implementations must satisfy the same behaviour.
var productRepositories = map[string]func(t *testing.T) repositories.ProductRepository{
	"gorm-sqlite": newSQLiteProductRepository,
	"memory":      newMockProductRepository,
}

func testProduct(title, slug string, urls ...string) *models.Product {
	id := uuid.NewString()
	return &models.Product{
		ID:     id,
		Title:  title,
		Slug:   slug,
		Price:  12.5,
		Stock:  4,
		Sizes:  []string{"S", "M"},
		Gender: models.GenderWomen,
		Tags:   []string{"hoodie"},
		Images: models.NewImages(id, urls),
		UserID: "owner-1",
	}
}

func insert(t *testing.T, repo repositories.ProductRepository, p *models.Product) *models.Product {
	t.Helper()
	require.NoError(t, repo.Insert(context.Background(), p))
	// Keep creation timestamps strictly increasing for ordering checks.
	time.Sleep(2 * time.Millisecond)
	return p
}

func TestProductRepository_InsertAndFind(t *testing.T) {
	for name, newRepo := range productRepositories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			p := insert(t, repo, testProduct("Cropped Puffer", "cropped-puffer", "b.jpg", "a.jpg"))

			byID, err := repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, "Cropped Puffer", byID.Title)
			assert.Equal(t, []string{"S", "M"}, byID.Sizes)
			assert.Equal(t, []string{"hoodie"}, byID.Tags)
			assert.Equal(t, []string{"b.jpg", "a.jpg"}, byID.ImageURLs())

			bySlug, err := repo.FindBySlugOrTitle(ctx, "cropped-puffer")
			require.NoError(t, err)
			assert.Equal(t, p.ID, bySlug.ID)

			byTitle, err := repo.FindBySlugOrTitle(ctx, "cROPPED pUFFER")
			require.NoError(t, err)
			assert.Equal(t, p.ID, byTitle.ID)

			_, err = repo.FindByID(ctx, uuid.NewString())
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			_, err = repo.FindBySlugOrTitle(ctx, "missing")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestProductRepository_DuplicateSlug(t *testing.T) {
	for name, newRepo := range productRepositories {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			insert(t, repo, testProduct("One", "same"))

			err := repo.Insert(context.Background(), testProduct("Two", "same"))
			require.Error(t, err)
			_, ok := repositories.UniqueViolation(err)
			assert.True(t, ok, err.Error())
		})
	}
}

func TestProductRepository_List(t *testing.T) {
	for name, newRepo := range productRepositories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			a := insert(t, repo, testProduct("A", "a", "a1.jpg"))
			b := insert(t, repo, testProduct("B", "b"))
			c := insert(t, repo, testProduct("C", "c", "c1.jpg", "c2.jpg"))

			page, total, err := repo.List(ctx, 0, 2)
			require.NoError(t, err)
			assert.EqualValues(t, 3, total)
			require.Len(t, page, 2)
			assert.Equal(t, a.ID, page[0].ID)
			assert.Equal(t, b.ID, page[1].ID)
			assert.Equal(t, []string{"a1.jpg"}, page[0].ImageURLs())

			page, _, err = repo.List(ctx, 2, 2)
			require.NoError(t, err)
			require.Len(t, page, 1)
			assert.Equal(t, c.ID, page[0].ID)
			assert.Equal(t, []string{"c1.jpg", "c2.jpg"}, page[0].ImageURLs())

			page, total, err = repo.List(ctx, 10, 2)
			require.NoError(t, err)
			assert.EqualValues(t, 3, total)
			assert.Empty(t, page)
		})
	}
}

func TestProductRepository_UpdateLeavesImages(t *testing.T) {
	for name, newRepo := range productRepositories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			p := insert(t, repo, testProduct("Old", "old", "x.jpg"))

			p.Title = "New"
			p.Stock = 0
			p.UserID = "owner-2"
			p.Images = nil
			require.NoError(t, repo.Update(ctx, p))

			got, err := repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, "New", got.Title)
			assert.Zero(t, got.Stock)
			assert.Equal(t, "owner-2", got.UserID)
			assert.Equal(t, []string{"x.jpg"}, got.ImageURLs())

			missing := testProduct("Ghost", "ghost")
			assert.ErrorIs(t, repo.Update(ctx, missing), repositories.ErrNotFound)
		})
	}
}

func TestProductRepository_ReplaceImages(t *testing.T) {
	for name, newRepo := range productRepositories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			p := insert(t, repo, testProduct("Hat", "hat", "1.jpg", "2.jpg"))
			other := insert(t, repo, testProduct("Cap", "cap", "o.jpg"))

			require.NoError(t, repo.DeleteOwnedImages(ctx, p.ID))
			require.NoError(t, repo.InsertImages(ctx, p.ID, models.NewImages(p.ID, []string{"3.jpg"})))

			got, err := repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"3.jpg"}, got.ImageURLs())

			untouched, err := repo.FindByID(ctx, other.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"o.jpg"}, untouched.ImageURLs())
		})
	}
}

func TestProductRepository_WithTransaction(t *testing.T) {
	for name, newRepo := range productRepositories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			p := insert(t, repo, testProduct("Tee", "tee", "1.jpg"))

			boom := errors.New("boom")
			err := repo.WithTransaction(ctx, func(tx repositories.ProductRepository) error {
				if err := tx.DeleteOwnedImages(ctx, p.ID); err != nil {
					return err
				}
				p.Title = "Changed"
				if err := tx.Update(ctx, p); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			got, err := repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, "Tee", got.Title)
			assert.Equal(t, []string{"1.jpg"}, got.ImageURLs())

			err = repo.WithTransaction(ctx, func(tx repositories.ProductRepository) error {
				if err := tx.DeleteOwnedImages(ctx, p.ID); err != nil {
					return err
				}
				return tx.InsertImages(ctx, p.ID, models.NewImages(p.ID, []string{"2.jpg"}))
			})
			require.NoError(t, err)

			got, err = repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"2.jpg"}, got.ImageURLs())
		})
	}
}

func TestProductRepository_Delete(t *testing.T) {
	for name, newRepo := range productRepositories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			p := insert(t, repo, testProduct("Gone", "gone", "1.jpg"))
			insert(t, repo, testProduct("Stays", "stays", "2.jpg"))

			require.NoError(t, repo.Delete(ctx, p.ID))
			_, err := repo.FindByID(ctx, p.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, p.ID), repositories.ErrNotFound)

			n, err := repo.DeleteAll(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			_, total, err := repo.List(ctx, 0, 10)
			require.NoError(t, err)
			assert.Zero(t, total)
		})
	}
}

func TestMockProductRepository_FailImageInserts(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()
	p := insert(t, repo, testProduct("Tee", "tee", "1.jpg"))

	repo.FailImageInserts = errors.New("disk full")
	err := repo.WithTransaction(ctx, func(tx repositories.ProductRepository) error {
		if err := tx.DeleteOwnedImages(ctx, p.ID); err != nil {
			return err
		}
		return tx.InsertImages(ctx, p.ID, models.NewImages(p.ID, []string{"2.jpg"}))
	})
	require.Error(t, err)

	images := repo.Images()
	require.Len(t, images, 1)
	assert.Equal(t, "1.jpg", images[0].URL)
}
