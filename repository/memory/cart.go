package memory

import (
	"context"
	"sort"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartRepository struct{ s *Store }

var _ repository.CartRepository = (*CartRepository)(nil)

func (r *CartRepository) Upsert(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, line := range r.s.carts {
		if line.UserID == item.UserID && line.Title == item.Title && line.Size == item.Size {
			remember(ctx, r.s.carts, id)
			line.Quantity += item.Quantity
			r.s.carts[id] = line
			return &line, nil
		}
	}

	line := *item
	if line.ID.IsZero() {
		line.ID = primitive.NewObjectID()
	}
	remember(ctx, r.s.carts, line.ID)
	r.s.carts[line.ID] = line
	return &line, nil
}

func (r *CartRepository) Increment(ctx context.Context, userID string, id primitive.ObjectID) (*models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	line, ok := r.s.carts[id]
	if !ok || line.UserID != userID {
		return nil, repository.ErrNotFound
	}
	remember(ctx, r.s.carts, id)
	line.Quantity++
	r.s.carts[id] = line
	return &line, nil
}

func (r *CartRepository) Decrement(ctx context.Context, userID string, id primitive.ObjectID) (*models.CartItem, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	line, ok := r.s.carts[id]
	if !ok || line.UserID != userID {
		return nil, false, repository.ErrNotFound
	}
	remember(ctx, r.s.carts, id)
	if line.Quantity <= 1 {
		delete(r.s.carts, id)
		return &line, true, nil
	}
	line.Quantity--
	r.s.carts[id] = line
	return &line, false, nil
}

func (r *CartRepository) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	line, ok := r.s.carts[id]
	if !ok || line.UserID != userID {
		return repository.ErrNotFound
	}
	remember(ctx, r.s.carts, id)
	delete(r.s.carts, id)
	return nil
}

func (r *CartRepository) ListByUser(_ context.Context, userID string) ([]models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.CartItem{}
	for _, line := range r.s.carts {
		if line.UserID == userID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, line := range r.s.carts {
		if line.UserID == userID {
			remember(ctx, r.s.carts, id)
			delete(r.s.carts, id)
			n++
		}
	}
	return n, nil
}
