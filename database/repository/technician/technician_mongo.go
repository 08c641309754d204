package technicianRepo

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

// MongoTechnicianRepo implements TechnicianRepository using MongoDB.
type MongoTechnicianRepo struct {
	coll *mongo.Collection
}

func NewMongoTechnicianRepo(db *mongo.Database) TechnicianRepository {
	return &MongoTechnicianRepo{coll: db.Collection("technicians")}
}

func (r *MongoTechnicianRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "firebaseUid", Value: 1}}, Options: options.Index().SetUnique(true)},
		// supports FindFirst: status filter + registration order
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "id", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create technician indexes: %w", err)
	}
	return nil
}

func (r *MongoTechnicianRepo) Create(ctx context.Context, t *models.Technician) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

func (r *MongoTechnicianRepo) GetByID(ctx context.Context, id string) (*models.Technician, error) {
	return r.findOne(ctx, bson.M{"id": id}, nil)
}

func (r *MongoTechnicianRepo) GetByFirebaseUID(ctx context.Context, uid string) (*models.Technician, error) {
	return r.findOne(ctx, bson.M{"firebaseUid": uid}, nil)
}

func (r *MongoTechnicianRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.Technician, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if opts == nil {
		opts = options.FindOne()
	}

	var t models.Technician
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&t); err != nil {
		return nil, database.MapNotFound(err, "failed to fetch technician %v", filter)
	}
	return &t, nil
}

func (r *MongoTechnicianRepo) List(ctx context.Context) ([]models.Technician, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve technicians: %w", err)
	}
	defer cursor.Close(ctx)

	techs := []models.Technician{}
	if err := cursor.All(ctx, &techs); err != nil {
		return nil, fmt.Errorf("failed to decode technicians: %w", err)
	}
	return techs, nil
}

func (u TechnicianUpdate) toSet(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.PhotoURL != nil {
		set["photoUrl"] = *u.PhotoURL
	}
	if u.City != nil {
		set["city"] = *u.City
	}
	if u.FCMToken != nil {
		set["fcmToken"] = *u.FCMToken
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.IsOnline != nil {
		set["isOnline"] = *u.IsOnline
	}
	if u.BrandExpertise != nil {
		set["brandExpertise"] = u.BrandExpertise
	}
	if u.RepairExpertise != nil {
		set["repairExpertise"] = u.RepairExpertise
	}
	if u.ServiceTypes != nil {
		set["serviceTypes"] = u.ServiceTypes
	}
	if u.CoverageAreas != nil {
		set["coverageAreas"] = u.CoverageAreas
	}
	return set
}

func (r *MongoTechnicianRepo) Update(ctx context.Context, id string, u TechnicianUpdate) (*models.Technician, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Technician
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": u.toSet(time.Now())}, opts).Decode(&t)
	if err != nil {
		return nil, database.MapNotFound(err, "failed to update technician %s", id)
	}
	return &t, nil
}

func (r *MongoTechnicianRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete technician %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoTechnicianRepo) FindFirst(ctx context.Context, c SearchCriteria) (*models.Technician, error) {
	filter := bson.M{}
	if len(c.Statuses) > 0 {
		filter["status"] = bson.M{"$in": c.Statuses}
	}
	if len(c.ExcludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": c.ExcludeIDs}
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	return r.findOne(ctx, filter, opts)
}

func (r *MongoTechnicianRepo) SetAggregates(ctx context.Context, id string, averageRating float64, totalReviews, completedJobs int) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"averageRating": averageRating,
		"totalReviews":  totalReviews,
		"completedJobs": completedJobs,
		"updatedAt":     time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set aggregates for technician %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
