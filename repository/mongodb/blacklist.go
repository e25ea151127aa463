package mongodb

import (
	"context"
	"time"

	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TokenBlacklist stores revoked tokens until they expire; a TTL index on
// expiresAt lets MongoDB drop them afterwards.
type TokenBlacklist struct {
	coll *mongo.Collection
}

func NewTokenBlacklist(coll *mongo.Collection) *TokenBlacklist {
	return &TokenBlacklist{coll: coll}
}

var _ repository.TokenBlacklist = (*TokenBlacklist)(nil)

func (b *TokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := b.coll.InsertOne(ctx, bson.M{"token": token, "expiresAt": expiresAt})
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return mapErr("blacklist token", err)
}

func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.coll.CountDocuments(ctx, bson.M{"token": token})
	if err != nil {
		return false, mapErr("check blacklist", err)
	}
	return n > 0, nil
}
