// Package memory is an in-process implementation of the repository ports.
// It backs STORE_DRIVER=memory for local runs and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	carts      map[primitive.ObjectID]models.CartItem
	orders     map[primitive.ObjectID]models.Order
	products   map[primitive.ObjectID]models.Product
	categories map[primitive.ObjectID]models.Category
	users      map[primitive.ObjectID]models.User
	settings   models.Settings
	blacklist  map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		carts:      map[primitive.ObjectID]models.CartItem{},
		orders:     map[primitive.ObjectID]models.Order{},
		products:   map[primitive.ObjectID]models.Product{},
		categories: map[primitive.ObjectID]models.Category{},
		users:      map[primitive.ObjectID]models.User{},
		blacklist:  map[string]time.Time{},
	}
}

func (s *Store) Carts() *CartRepository { return &CartRepository{s} }
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s} }
func (s *Store) Products() *ProductRepository { return &ProductRepository{s} }
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s} }
func (s *Store) Users() *UserRepository { return &UserRepository{s} }
func (s *Store) Settings() *SettingsRepository { return &SettingsRepository{s} }
func (s *Store) Blacklist() *TokenBlacklist { return &TokenBlacklist{s} }
func (s *Store) Transactor() repository.Transactor { return s }

type txKey struct{}

// undoLog collects the inverse of every write made inside one
// transaction. Entries are replayed newest first on rollback.
type undoLog struct {
	ops []func()
}

// WithTransaction serializes transactions. When fn fails, only the
// documents fn wrote are put back; writes from other callers stand.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(txKey{}).(*undoLog); nested {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		for i := len(log.ops) - 1; i >= 0; i-- {
			log.ops[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// remember records the current state of m[key] so a failing transaction
// on ctx can restore it. Callers hold s.mu for writing.
func remember[K comparable, V any](ctx context.Context, m map[K]V, key K) {
	log, ok := ctx.Value(txKey{}).(*undoLog)
	if !ok {
		return
	}
	prev, existed := m[key]
	log.ops = append(log.ops, func() {
		if existed {
			m[key] = prev
		} else {
			delete(m, key)
		}
	})
}

func (s *Store) rememberSettings(ctx context.Context) {
	log, ok := ctx.Value(txKey{}).(*undoLog)
	if !ok {
		return
	}
	prev := s.settings
	log.ops = append(log.ops, func() { s.settings = prev })
}

func limitSlice[T any](in []T, limit int64) []T {
	if limit > 0 && int64(len(in)) > limit {
		return in[:limit]
	}
	return in
}
