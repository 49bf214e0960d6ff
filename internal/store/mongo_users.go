package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/timecapsule-app/timecapsule-backend/internal/models"
)

type mongoUsers struct {
	c *mongo.Collection
}

// NewMongoUsers returns a UserStore backed by the "users" collection.
func NewMongoUsers(db *mongo.Database) UserStore {
	return &mongoUsers{c: db.Collection("users")}
}

func (s *mongoUsers) Insert(ctx context.Context, user *models.User) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, user)
	return mapMongoErr(err)
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *mongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *mongoUsers) FindByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"verifyToken": token})
}

func (s *mongoUsers) MarkVerified(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set":   bson.M{"isVerified": true},
		"$unset": bson.M{"verifyToken": "", "verifyTokenExpiryDate": ""},
	})
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var user models.User
	if err := s.c.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}
