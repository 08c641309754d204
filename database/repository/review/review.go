package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"ziyonstar/database"
	"ziyonstar/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RatingStats summarises every review a technician has received.
type RatingStats struct {
	Average float64
	Count   int
}

type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	// DeleteByBooking removes the review recorded for bookingID, if any.
	DeleteByBooking(ctx context.Context, bookingID string) error
	ListByTechnician(ctx context.Context, technicianID string) ([]models.Review, error)
	StatsByTechnician(ctx context.Context, technicianID string) (RatingStats, error)
	EnsureIndexes(ctx context.Context) error
}

type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	return &MongoReviewRepo{coll: db.Collection("reviews")}
}

func (r *MongoReviewRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "technicianId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, rv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("review for booking %s: %w", rv.BookingID, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create review for booking %s: %w", rv.BookingID, err)
	}
	return nil
}

func (r *MongoReviewRepo) DeleteByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"bookingId": bookingID}); err != nil {
		return fmt.Errorf("failed to delete review for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *MongoReviewRepo) ListByTechnician(ctx context.Context, technicianID string) ([]models.Review, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"technicianId": technicianID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// StatsByTechnician computes the mean rating and review count in the store.
func (r *MongoReviewRepo) StatsByTechnician(ctx context.Context, technicianID string) (RatingStats, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"technicianId": technicianID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$technicianId",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return RatingStats{}, fmt.Errorf("rating aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return RatingStats{}, fmt.Errorf("failed to decode rating stats: %w", err)
	}
	if len(rows) == 0 {
		return RatingStats{}, nil
	}
	return RatingStats{Average: rows[0].Average, Count: rows[0].Count}, nil
}
