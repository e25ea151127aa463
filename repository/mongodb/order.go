package mongodb

import (
	"context"
	"time"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(coll *mongo.Collection) *OrderRepository {
	return &OrderRepository{coll: coll}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

var newestOrdersFirst = options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}, {Key: "_id", Value: -1}})

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, order)
	return mapErr("insert order", err)
}

func (r *OrderRepository) InsertMany(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		docs = append(docs, o)
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return mapErr("insert orders", err)
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var out models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return nil, mapErr("find order", err)
	}
	return &out, nil
}

func (r *OrderRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, newestOrdersFirst)
	if err != nil {
		return nil, mapErr("find orders", err)
	}
	return decodeAll[models.Order](ctx, cursor, "decode orders")
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, newestOrdersFirst)
	if err != nil {
		return nil, mapErr("list orders", err)
	}
	return decodeAll[models.Order](ctx, cursor, "decode orders")
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, newestOrdersFirst)
	if err != nil {
		return nil, mapErr("list all orders", err)
	}
	return decodeAll[models.Order](ctx, cursor, "decode orders")
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.OrderStatus, to models.OrderStatus, deliveredAt *time.Time) (*models.Order, error) {
	set := bson.M{"orderStatus": to}
	if deliveredAt != nil {
		set["deliveryDate"] = *deliveredAt
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.Order
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "orderStatus": bson.M{"$in": from}},
		bson.M{"$set": set},
		opts,
	).Decode(&out)
	if err != nil {
		return nil, mapErr("update order status", err)
	}
	return &out, nil
}

func (r *OrderRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return mapErr("delete orders", err)
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return n, mapErr("count orders", err)
}
