package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/timecapsule-app/timecapsule-backend/internal/models"
)

type mongoJournals struct {
	c *mongo.Collection
}

// NewMongoJournals returns a JournalStore backed by the "journals" collection.
func NewMongoJournals(db *mongo.Database) JournalStore {
	return &mongoJournals{c: db.Collection("journals")}
}

func (s *mongoJournals) Insert(ctx context.Context, journal *models.Journal) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if journal.ID.IsZero() {
		journal.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, journal)
	return mapMongoErr(err)
}

func (s *mongoJournals) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Journal, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := s.c.Find(ctx, bson.M{"createdBy": ownerID}, findOptions)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	journals := []models.Journal{}
	if err := cursor.All(ctx, &journals); err != nil {
		return nil, mapMongoErr(err)
	}
	return journals, nil
}

func (s *mongoJournals) FindScoped(ctx context.Context, id string, ownerID primitive.ObjectID) (*models.Journal, error) {
	filter, err := scopedFilter(id, "createdBy", ownerID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	var journal models.Journal
	if err := s.c.FindOne(ctx, filter).Decode(&journal); err != nil {
		return nil, mapMongoErr(err)
	}
	return &journal, nil
}

func (s *mongoJournals) UpdateScoped(ctx context.Context, id string, ownerID primitive.ObjectID, update JournalUpdate) (*models.Journal, error) {
	filter, err := scopedFilter(id, "createdBy", ownerID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Color != nil {
		set["color"] = *update.Color
	}
	if update.CoverImage != nil {
		set["coverImage"] = *update.CoverImage
	}
	if update.IsShared != nil {
		set["isShared"] = *update.IsShared
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var journal models.Journal
	if err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&journal); err != nil {
		return nil, mapMongoErr(err)
	}
	return &journal, nil
}

func (s *mongoJournals) DeleteScoped(ctx context.Context, id string, ownerID primitive.ObjectID) (*models.Journal, error) {
	filter, err := scopedFilter(id, "createdBy", ownerID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	var journal models.Journal
	if err := s.c.FindOneAndDelete(ctx, filter).Decode(&journal); err != nil {
		return nil, mapMongoErr(err)
	}
	return &journal, nil
}
