// Package repository declares the persistence ports used by the services.
// Implementations live in repository/mongodb and repository/memory.
package repository

import (
	"context"
	"errors"
	"time"

	"shopez/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

type CartRepository interface {
	// Upsert increments the quantity of the line matching
	// (UserID, Title, Size) by item.Quantity, or inserts item when no such
	// line exists. The returned line reflects the stored state.
	Upsert(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	Increment(ctx context.Context, userID string, id primitive.ObjectID) (*models.CartItem, error)
	// Decrement lowers the quantity by one, or deletes the line when it is
	// already at one. removed reports which of the two happened.
	Decrement(ctx context.Context, userID string, id primitive.ObjectID) (item *models.CartItem, removed bool, err error)
	Delete(ctx context.Context, userID string, id primitive.ObjectID) error
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	InsertMany(ctx context.Context, orders []*models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// UpdateStatus sets the status only while the stored status is one of
	// from. ErrNotFound covers both an unknown id and a status mismatch.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.OrderStatus, to models.OrderStatus, deliveredAt *time.Time) (*models.Order, error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Search(ctx context.Context, term string, limit int64) ([]models.Product, error)
	Featured(ctx context.Context, limit int64) ([]models.Product, error)
	ListByCategory(ctx context.Context, slug string) ([]models.Product, error)
	CountByCategory(ctx context.Context, slug string) (int64, error)
	ReassignCategory(ctx context.Context, from, to string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	Insert(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	SetBanner(ctx context.Context, banner string) error
}

type TokenBlacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

// Transactor runs fn so that its writes either all persist or none do.
// Repositories must be called with the ctx handed to fn.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
