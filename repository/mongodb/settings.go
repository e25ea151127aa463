package mongodb

import (
	"context"
	"errors"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsID keys the single storefront settings document.
const settingsID = "storefront"

type SettingsRepository struct {
	coll *mongo.Collection
}

func NewSettingsRepository(coll *mongo.Collection) *SettingsRepository {
	return &SettingsRepository{coll: coll}
}

var _ repository.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var out models.Settings
	err := r.coll.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.Settings{}, nil
	}
	if err != nil {
		return nil, mapErr("get settings", err)
	}
	return &out, nil
}

func (r *SettingsRepository) SetBanner(ctx context.Context, banner string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": settingsID},
		bson.M{"$set": bson.M{"banner": banner}},
		options.Update().SetUpsert(true),
	)
	return mapErr("set banner", err)
}
