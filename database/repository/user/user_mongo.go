package userRepo

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

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) UserRepository {
	return &MongoUserRepo{coll: db.Collection("users")}
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"id": 1, "name": 1, "email": 1, "phone": 1, "fcmToken": 1})

	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&u); err != nil {
		return nil, database.MapNotFound(err, "failed to fetch user with id %s", id)
	}
	return &u, nil
}

// SetFCMToken records the device token, creating a stub record when the user is unknown.
func (r *MongoUserRepo) SetFCMToken(ctx context.Context, id, token string) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set":         bson.M{"fcmToken": token, "updatedAt": now},
		"$setOnInsert": bson.M{"id": id, "createdAt": now},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to update fcm token for user %s: %w", id, err)
	}
	return nil
}
