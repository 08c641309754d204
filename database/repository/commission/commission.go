package commissionRepo

import (
	"context"
	"fmt"
	"time"

	"ziyonstar/database"
	"ziyonstar/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommissionRepository persists commission policies keyed by category.
type CommissionRepository interface {
	Upsert(ctx context.Context, in models.CommissionInput) (*models.Commission, error)
	List(ctx context.Context) ([]models.Commission, error)
	ListActive(ctx context.Context) ([]models.Commission, error)
	GetByCategory(ctx context.Context, category string) (*models.Commission, error)
	Delete(ctx context.Context, category string) error
	EnsureIndexes(ctx context.Context) error
}

type MongoCommissionRepo struct {
	coll *mongo.Collection
}

func NewMongoCommissionRepo(db *mongo.Database) CommissionRepository {
	return &MongoCommissionRepo{coll: db.Collection("commissions")}
}

func (r *MongoCommissionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create commission indexes: %w", err)
	}
	return nil
}

// Upsert replaces the policy for in.Category, creating it when absent.
func (r *MongoCommissionRepo) Upsert(ctx context.Context, in models.CommissionInput) (*models.Commission, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.Commission
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"category": in.Category}, upsertUpdate(in, uuid.New().String(), time.Now()), opts).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert commission %s: %w", in.Category, err)
	}
	return &saved, nil
}

// upsertUpdate builds the update document. New policies start active unless told otherwise.
func upsertUpdate(in models.CommissionInput, id string, now time.Time) bson.M {
	set := bson.M{
		"type":        in.Type,
		"value":       in.Value,
		"description": in.Description,
		"updatedAt":   now,
	}
	onInsert := bson.M{"id": id}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	} else {
		onInsert["isActive"] = true
	}
	return bson.M{"$set": set, "$setOnInsert": onInsert}
}

func (r *MongoCommissionRepo) List(ctx context.Context) ([]models.Commission, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoCommissionRepo) ListActive(ctx context.Context) ([]models.Commission, error) {
	return r.find(ctx, bson.M{"isActive": true})
}

func (r *MongoCommissionRepo) find(ctx context.Context, filter bson.M) ([]models.Commission, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "category", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query commissions: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Commission{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode commissions: %w", err)
	}
	return out, nil
}

func (r *MongoCommissionRepo) GetByCategory(ctx context.Context, category string) (*models.Commission, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Commission
	if err := r.coll.FindOne(ctx, bson.M{"category": category}).Decode(&c); err != nil {
		return nil, database.MapNotFound(err, "failed to fetch commission %s", category)
	}
	return &c, nil
}

func (r *MongoCommissionRepo) Delete(ctx context.Context, category string) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"category": category})
	if err != nil {
		return fmt.Errorf("failed to delete commission %s: %w", category, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
