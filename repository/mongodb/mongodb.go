// Package mongodb implements the repository ports on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"shopez/database"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles every MongoDB-backed repository over one database.
type Store struct {
	Carts      *CartRepository
	Orders     *OrderRepository
	Products   *ProductRepository
	Categories *CategoryRepository
	Users      *UserRepository
	Settings   *SettingsRepository
	Blacklist  *TokenBlacklist
	Tx         *Transactor
}

func NewStore(client *mongo.Client, db *mongo.Database, transactions bool) *Store {
	return &Store{
		Carts:      NewCartRepository(db.Collection(database.CartCollection)),
		Orders:     NewOrderRepository(db.Collection(database.OrdersCollection)),
		Products:   NewProductRepository(db.Collection(database.ProductsCollection)),
		Categories: NewCategoryRepository(db.Collection(database.CategoriesCollection)),
		Users:      NewUserRepository(db.Collection(database.UsersCollection)),
		Settings:   NewSettingsRepository(db.Collection(database.SettingsCollection)),
		Blacklist:  NewTokenBlacklist(db.Collection(database.BlacklistCollection)),
		Tx:         NewTransactor(client, transactions),
	}
}

// mapErr translates driver errors into repository errors.
func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor, op string) ([]T, error) {
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapErr(op, err)
	}
	return out, nil
}
