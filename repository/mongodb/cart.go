package mongodb

import (
	"context"
	"errors"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// decrementAttempts bounds the retry loop when a concurrent increase lands
// between the two conditional writes of Decrement.
const decrementAttempts = 3

type CartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(coll *mongo.Collection) *CartRepository {
	return &CartRepository{coll: coll}
}

var _ repository.CartRepository = (*CartRepository)(nil)

func (r *CartRepository) Upsert(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	filter := bson.M{"userId": item.UserID, "title": item.Title, "size": item.Size}
	update := bson.M{
		"$inc": bson.M{"quantity": item.Quantity},
		"$setOnInsert": bson.M{
			"productId":   item.ProductID,
			"description": item.Description,
			"mainImg":     item.MainImage,
			"price":       item.UnitPrice,
			"discount":    item.DiscountPercent,
			"addedAt":     item.AddedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.CartItem
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if mongo.IsDuplicateKeyError(err) {
		// two upserts raced on the unique (userId, title, size) index;
		// the loser retries as a plain increment
		err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	}
	if err != nil {
		return nil, mapErr("upsert cart item", err)
	}
	return &out, nil
}

func (r *CartRepository) Increment(ctx context.Context, userID string, id primitive.ObjectID) (*models.CartItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.CartItem
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$inc": bson.M{"quantity": 1}},
		opts,
	).Decode(&out)
	if err != nil {
		return nil, mapErr("increment cart item", err)
	}
	return &out, nil
}

func (r *CartRepository) Decrement(ctx context.Context, userID string, id primitive.ObjectID) (*models.CartItem, bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	for attempt := 0; attempt < decrementAttempts; attempt++ {
		var out models.CartItem
		err := r.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": id, "userId": userID, "quantity": bson.M{"$gt": 1}},
			bson.M{"$inc": bson.M{"quantity": -1}},
			opts,
		).Decode(&out)
		if err == nil {
			return &out, false, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, mapErr("decrement cart item", err)
		}

		err = r.coll.FindOneAndDelete(ctx,
			bson.M{"_id": id, "userId": userID, "quantity": bson.M{"$lte": 1}},
		).Decode(&out)
		if err == nil {
			return &out, true, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, mapErr("remove cart item", err)
		}

		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id, "userId": userID})
		if err != nil {
			return nil, false, mapErr("count cart item", err)
		}
		if n == 0 {
			return nil, false, repository.ErrNotFound
		}
	}
	return nil, false, errors.New("decrement cart item: too much contention")
}

func (r *CartRepository) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return mapErr("delete cart item", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, mapErr("list cart", err)
	}
	return decodeAll[models.CartItem](ctx, cursor, "decode cart")
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, mapErr("clear cart", err)
	}
	return res.DeletedCount, nil
}
