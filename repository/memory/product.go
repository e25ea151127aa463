package memory

import (
	"context"
	"sort"
	"strings"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepository struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	remember(ctx, r.s.products, p.ID)
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	remember(ctx, r.s.products, p.ID)
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	remember(ctx, r.s.products, id)
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) all(keep func(models.Product) bool) []models.Product {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Product{}
	for _, p := range r.s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *ProductRepository) List(_ context.Context, f models.ProductFilter) ([]models.Product, error) {
	out := r.all(func(p models.Product) bool {
		switch {
		case f.Category != "" && p.Category != f.Category:
			return false
		case f.Brand != "" && p.Brand != f.Brand:
			return false
		case f.MinPrice != nil && p.Price < *f.MinPrice:
			return false
		case f.MaxPrice != nil && p.Price > *f.MaxPrice:
			return false
		}
		return true
	})

	sort.SliceStable(out, func(i, j int) bool {
		switch f.Sort {
		case models.SortPriceLow:
			return out[i].Price < out[j].Price
		case models.SortPriceHigh:
			return out[i].Price > out[j].Price
		case models.SortPopular:
			return out[i].Rating > out[j].Rating
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return limitSlice(out, f.Limit), nil
}

func (r *ProductRepository) Search(_ context.Context, term string, limit int64) ([]models.Product, error) {
	needle := strings.ToLower(term)
	out := r.all(func(p models.Product) bool {
		for _, field := range []string{p.Title, p.Description, p.Category, p.Brand} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return limitSlice(out, limit), nil
}

func (r *ProductRepository) Featured(_ context.Context, limit int64) ([]models.Product, error) {
	out := r.all(func(models.Product) bool { return true })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating == out[j].Rating {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Rating > out[j].Rating
	})
	return limitSlice(out, limit), nil
}

func (r *ProductRepository) ListByCategory(_ context.Context, slug string) ([]models.Product, error) {
	return r.all(func(p models.Product) bool { return strings.EqualFold(p.Category, slug) }), nil
}

func (r *ProductRepository) CountByCategory(_ context.Context, slug string) (int64, error) {
	return int64(len(r.all(func(p models.Product) bool { return p.Category == slug }))), nil
}

func (r *ProductRepository) ReassignCategory(ctx context.Context, from, to string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, p := range r.s.products {
		if p.Category == from {
			remember(ctx, r.s.products, id)
			p.Category = to
			r.s.products[id] = p
			n++
		}
	}
	return n, nil
}

func (r *ProductRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.products)), nil
}
