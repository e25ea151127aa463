package memory

import (
	"context"
	"sort"
	"time"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository struct{ s *Store }

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, exists := r.s.orders[order.ID]; exists {
		return repository.ErrDuplicate
	}
	remember(ctx, r.s.orders, order.ID)
	r.s.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *OrderRepository) InsertMany(ctx context.Context, orders []*models.Order) error {
	for _, o := range orders {
		if err := r.Insert(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *OrderRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Order{}
	for _, id := range ids {
		if o, ok := r.s.orders[id]; ok {
			out = append(out, copyOrder(o))
		}
	}
	sortOrders(out)
	return out, nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (r *OrderRepository) ListAll(_ context.Context) ([]models.Order, error) {
	return r.filter(func(models.Order) bool { return true }), nil
}

func (r *OrderRepository) filter(keep func(models.Order) bool) []models.Order {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Order{}
	for _, o := range r.s.orders {
		if keep(o) {
			out = append(out, copyOrder(o))
		}
	}
	sortOrders(out)
	return out
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.OrderStatus, to models.OrderStatus, deliveredAt *time.Time) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok || !containsStatus(from, o.Status) {
		return nil, repository.ErrNotFound
	}
	remember(ctx, r.s.orders, id)
	o.Status = to
	if deliveredAt != nil {
		d := *deliveredAt
		o.DeliveryDate = &d
	}
	r.s.orders[id] = o
	o = copyOrder(o)
	return &o, nil
}

func (r *OrderRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		remember(ctx, r.s.orders, id)
		delete(r.s.orders, id)
	}
	return nil
}

func (r *OrderRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.orders)), nil
}

func containsStatus(set []models.OrderStatus, s models.OrderStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func sortOrders(out []models.Order) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].OrderDate.After(out[j].OrderDate)
	})
}

// copyOrder detaches the DeliveryDate pointer from the stored value.
func copyOrder(o models.Order) models.Order {
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		o.DeliveryDate = &d
	}
	return o
}
