package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a BookingRepository backed by the "bookings" collection.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "technicianId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "transactionId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	if b.RejectedBy == nil {
		b.RejectedBy = []models.Rejection{}
	}

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBookingRepo) GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"transactionId": transactionID})
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&b); err != nil {
		return nil, database.MapNotFound(err, "failed to fetch booking %v", filter)
	}
	return &b, nil
}

func (u BookingUpdate) toBSON(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.TechnicianID != nil {
		set["technicianId"] = *u.TechnicianID
	}
	if u.OTPVerified != nil {
		set["otpVerified"] = *u.OTPVerified
	}
	if u.PaymentStatus != nil {
		set["paymentStatus"] = *u.PaymentStatus
	}
	if u.TransactionID != nil {
		set["transactionId"] = *u.TransactionID
	}
	if u.PaymentDetails != nil {
		set["paymentDetails"] = u.PaymentDetails
	}
	if u.PickupDetails != nil {
		set["pickupDetails"] = u.PickupDetails
	}
	if u.CompletedAt != nil {
		set["completedAt"] = *u.CompletedAt
	}

	update := bson.M{"$set": set}
	if u.PushRejection != nil {
		update["$push"] = bson.M{"rejectedBy": u.PushRejection}
	}
	return update
}

func (r *MongoBookingRepo) Update(ctx context.Context, id string, u BookingUpdate) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Booking
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, u.toBSON(time.Now()), opts).Decode(&b)
	if err != nil {
		return nil, database.MapNotFound(err, "failed to update booking %s", id)
	}
	return &b, nil
}

func (r *MongoBookingRepo) MarkReviewed(ctx context.Context, id string, rating int, text string) (bool, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":       id,
		"status":   models.StatusCompleted,
		"reviewed": bson.M{"$ne": true},
	}
	update := bson.M{"$set": bson.M{
		"rating":     rating,
		"reviewText": text,
		"reviewed":   true,
		"updatedAt":  time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to record review for booking %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"userId": userID}, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *MongoBookingRepo) ListByTechnician(ctx context.Context, technicianID string, exclude []models.BookingStatus) ([]models.Booking, error) {
	filter := bson.M{"technicianId": technicianID}
	if len(exclude) > 0 {
		filter["status"] = bson.M{"$nin": exclude}
	}
	return r.find(ctx, filter, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *MongoBookingRepo) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.find(ctx, bson.M{}, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *MongoBookingRepo) ListCompletedByTechnician(ctx context.Context, technicianID string) ([]models.Booking, error) {
	filter := bson.M{"technicianId": technicianID, "status": models.StatusCompleted}
	return r.find(ctx, filter, bson.D{{Key: "updatedAt", Value: -1}})
}

func (r *MongoBookingRepo) CountCompletedByTechnician(ctx context.Context, technicianID string) (int, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"technicianId": technicianID, "status": models.StatusCompleted})
	if err != nil {
		return 0, fmt.Errorf("failed to count completed bookings for %s: %w", technicianID, err)
	}
	return int(n), nil
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
