package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"shopez/models"
	"shopez/repository"

	"go.uber.org/zap"
)

// DefaultCategories are seeded into an empty catalog.
var DefaultCategories = []string{
	"Electronics", "Mobiles", "Laptops", "Fashion", "Shoes", "Watches",
	"Bags", "Sports", "Grocery", "Fashion Accessories", "Bracelets", "Sports Equipment",
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2"`
}

type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	tx         repository.Transactor
	logger     *zap.Logger
	now        func() time.Time
}

func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository, tx repository.Transactor, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, products: products, tx: tx, logger: orNop(logger), now: time.Now}
}

// SeedDefaults inserts DefaultCategories when no category exists yet.
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	n, err := s.categories.Count(ctx)
	if err != nil {
		return storageError(s.logger, "count categories", "", err)
	}
	if n > 0 {
		return nil
	}
	for i, name := range DefaultCategories {
		c := &models.Category{
			Name:      name,
			Slug:      models.Slugify(name),
			CreatedAt: s.now().Add(time.Duration(i) * time.Millisecond),
		}
		if err := s.categories.Insert(ctx, c); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return storageError(s.logger, "seed category", "", err)
		}
	}
	s.logger.Info("seeded default categories", zap.Int("count", len(DefaultCategories)))
	return nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	out, err := s.categories.List(ctx)
	if err != nil {
		return nil, storageError(s.logger, "list categories", "", err)
	}
	return out, nil
}

func (s *CategoryService) ListWithCounts(ctx context.Context) ([]models.CategoryCount, error) {
	cats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.CategoryCount, 0, len(cats))
	for _, c := range cats {
		n, err := s.products.CountByCategory(ctx, c.Slug)
		if err != nil {
			return nil, storageError(s.logger, "count products", "", err)
		}
		out = append(out, models.CategoryCount{Name: c.Name, Slug: c.Slug, Count: n})
	}
	return out, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	c := &models.Category{Name: in.Name, Slug: models.Slugify(in.Name), CreatedAt: s.now()}
	if err := s.categories.Insert(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: "category already exists"}
		}
		return nil, storageError(s.logger, "insert category", "", err)
	}
	return c, nil
}

// Rename changes the name and slug of a category and re-points every
// product that carried the old slug.
func (s *CategoryService) Rename(ctx context.Context, categoryID string, in CategoryInput) (*models.Category, error) {
	id, err := parseID("id", categoryID)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var renamed *models.Category
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		c, err := s.categories.FindByID(ctx, id)
		if err != nil {
			return storageError(s.logger, "find category", "category", err)
		}
		oldSlug := c.Slug
		c.Name = in.Name
		c.Slug = models.Slugify(in.Name)
		if err := s.categories.Update(ctx, c); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return &ConflictError{Message: "category already exists"}
			}
			return storageError(s.logger, "update category", "category", err)
		}
		if oldSlug != c.Slug {
			if _, err := s.products.ReassignCategory(ctx, oldSlug, c.Slug); err != nil {
				return storageError(s.logger, "reassign products", "", err)
			}
		}
		renamed = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// Delete removes a category that no product uses.
func (s *CategoryService) Delete(ctx context.Context, categoryID string) error {
	id, err := parseID("id", categoryID)
	if err != nil {
		return err
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return storageError(s.logger, "find category", "category", err)
	}
	n, err := s.products.CountByCategory(ctx, c.Slug)
	if err != nil {
		return storageError(s.logger, "count products", "", err)
	}
	if n > 0 {
		return &ConflictError{Message: "category still has products"}
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return storageError(s.logger, "delete category", "category", err)
	}
	return nil
}
