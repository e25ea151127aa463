package mongodb

import (
	"context"
	"regexp"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(coll *mongo.Collection) *ProductRepository {
	return &ProductRepository{coll: coll}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, product)
	return mapErr("insert product", err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var out models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return nil, mapErr("find product", err)
	}
	return &out, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return mapErr("update product", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr("delete product", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Brand != "" {
		query["brand"] = f.Brand
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["price"] = price
	}

	opts := options.Find().SetSort(sortFor(f.Sort))
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, mapErr("list products", err)
	}
	return decodeAll[models.Product](ctx, cursor, "decode products")
}

func sortFor(s string) bson.D {
	switch s {
	case models.SortPriceLow:
		return bson.D{{Key: "price", Value: 1}}
	case models.SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}}
	case models.SortPopular:
		return bson.D{{Key: "rating", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (r *ProductRepository) Search(ctx context.Context, term string, limit int64) ([]models.Product, error) {
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	query := bson.M{"$or": bson.A{
		bson.M{"title": rx},
		bson.M{"description": rx},
		bson.M{"category": rx},
		bson.M{"brand": rx},
	}}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetLimit(limit))
	if err != nil {
		return nil, mapErr("search products", err)
	}
	return decodeAll[models.Product](ctx, cursor, "decode products")
}

func (r *ProductRepository) Featured(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr("featured products", err)
	}
	return decodeAll[models.Product](ctx, cursor, "decode products")
}

func categoryMatch(slug string) bson.M {
	return bson.M{"category": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(slug) + "$", Options: "i"}}
}

func (r *ProductRepository) ListByCategory(ctx context.Context, slug string) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, categoryMatch(slug))
	if err != nil {
		return nil, mapErr("list products by category", err)
	}
	return decodeAll[models.Product](ctx, cursor, "decode products")
}

func (r *ProductRepository) CountByCategory(ctx context.Context, slug string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"category": slug})
	return n, mapErr("count products by category", err)
}

func (r *ProductRepository) ReassignCategory(ctx context.Context, from, to string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"category": from}, bson.M{"$set": bson.M{"category": to}})
	if err != nil {
		return 0, mapErr("reassign category", err)
	}
	return res.ModifiedCount, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return n, mapErr("count products", err)
}
