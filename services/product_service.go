package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"shopez/models"
	"shopez/repository"

	"go.uber.org/zap"
)

const (
	defaultRating       = 4.5
	defaultCountInStock = 10
	defaultFeatured     = 8
	searchLimit         = 50
)

type ProductInput struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	MainImage       string   `json:"mainImg" validate:"required"`
	Carousel        []string `json:"carousel"`
	Sizes           []string `json:"sizes"`
	Category        string   `json:"category" validate:"required"`
	Gender          string   `json:"gender" validate:"omitempty,oneof=men women unisex"`
	Price           float64  `json:"price" validate:"gt=0"`
	DiscountPercent float64  `json:"discount" validate:"gte=0,lte=100"`
	Brand           string   `json:"brand"`
	Rating          *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	CountInStock    *int     `json:"countInStock" validate:"omitempty,gte=0"`
}

type ProductQuery struct {
	Category string   `form:"category"`
	Brand    string   `form:"brand"`
	MinPrice *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	Sort     string   `form:"sort" validate:"omitempty,oneof=price_low price_high popular newest"`
	Limit    int64    `form:"limit" validate:"gte=0"`
}

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, categories: categories, logger: orNop(logger), now: time.Now}
}

func (s *ProductService) List(ctx context.Context, q ProductQuery) ([]ProductView, error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, invalidField("minPrice", "must not exceed maxPrice")
	}
	products, err := s.products.List(ctx, models.ProductFilter{
		Category: models.Slugify(q.Category),
		Brand:    strings.TrimSpace(q.Brand),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Sort:     q.Sort,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, storageError(s.logger, "list products", "", err)
	}
	return newProductViews(products), nil
}

func (s *ProductService) Get(ctx context.Context, productID string) (*ProductView, error) {
	id, err := parseID("id", productID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(s.logger, "find product", "product", err)
	}
	v := newProductView(*p)
	return &v, nil
}

// Search matches term case-insensitively against title, description,
// category and brand. A blank term matches nothing.
func (s *ProductService) Search(ctx context.Context, term string) ([]ProductView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []ProductView{}, nil
	}
	products, err := s.products.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, storageError(s.logger, "search products", "", err)
	}
	return newProductViews(products), nil
}

func (s *ProductService) Featured(ctx context.Context, limit int64) ([]ProductView, error) {
	if limit <= 0 {
		limit = defaultFeatured
	}
	products, err := s.products.Featured(ctx, limit)
	if err != nil {
		return nil, storageError(s.logger, "featured products", "", err)
	}
	return newProductViews(products), nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]ProductView, error) {
	products, err := s.products.ListByCategory(ctx, models.Slugify(category))
	if err != nil {
		return nil, storageError(s.logger, "list products by category", "", err)
	}
	return newProductViews(products), nil
}

func (s *ProductService) CategoryDetails(ctx context.Context, category string) (*models.CategoryDetails, error) {
	slug := models.Slugify(category)
	products, err := s.products.ListByCategory(ctx, slug)
	if err != nil {
		return nil, storageError(s.logger, "list products by category", "", err)
	}

	details := &models.CategoryDetails{Category: slug, Brands: []string{}, ProductCount: len(products)}
	seen := map[string]bool{}
	for i, p := range products {
		if p.Brand != "" && !seen[p.Brand] {
			seen[p.Brand] = true
			details.Brands = append(details.Brands, p.Brand)
		}
		if i == 0 || p.Price < details.PriceRange.Min {
			details.PriceRange.Min = p.Price
		}
		if p.Price > details.PriceRange.Max {
			details.PriceRange.Max = p.Price
		}
	}
	sort.Strings(details.Brands)
	return details, nil
}

// checkCategory resolves the category of in to an existing slug.
func (s *ProductService) checkCategory(ctx context.Context, in *ProductInput) error {
	slug := models.Slugify(in.Category)
	if slug == "" {
		return nil
	}
	if _, err := s.categories.FindBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidField("category", "unknown category")
		}
		return storageError(s.logger, "find category", "", err)
	}
	in.Category = slug
	return nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*ProductView, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, &in); err != nil {
		return nil, err
	}

	p := &models.Product{CreatedAt: s.now()}
	apply(p, in)
	if in.Rating == nil {
		p.Rating = defaultRating
	}
	if in.CountInStock == nil {
		p.CountInStock = defaultCountInStock
	}
	if err := s.products.Insert(ctx, p); err != nil {
		return nil, storageError(s.logger, "insert product", "", err)
	}
	v := newProductView(*p)
	return &v, nil
}

func (s *ProductService) Update(ctx context.Context, productID string, in ProductInput) (*ProductView, error) {
	id, err := parseID("id", productID)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, &in); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(s.logger, "find product", "product", err)
	}
	apply(p, in)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, storageError(s.logger, "update product", "product", err)
	}
	v := newProductView(*p)
	return &v, nil
}

func (s *ProductService) Delete(ctx context.Context, productID string) error {
	id, err := parseID("id", productID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return storageError(s.logger, "delete product", "product", err)
	}
	return nil
}

func apply(p *models.Product, in ProductInput) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.MainImage = in.MainImage
	p.Carousel = nonNil(in.Carousel)
	p.Sizes = nonNil(in.Sizes)
	p.Category = in.Category
	p.Gender = in.Gender
	p.Price = in.Price
	p.DiscountPercent = in.DiscountPercent
	p.Brand = strings.TrimSpace(in.Brand)
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.CountInStock != nil {
		p.CountInStock = *in.CountInStock
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
