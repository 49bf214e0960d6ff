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

type mongoEntries struct {
	c *mongo.Collection
}

// NewMongoEntries returns an EntryStore backed by the "entries" collection.
func NewMongoEntries(db *mongo.Database) EntryStore {
	return &mongoEntries{c: db.Collection("entries")}
}

func (s *mongoEntries) Insert(ctx context.Context, entry *models.Entry) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return mapMongoErr(err)
}

func (s *mongoEntries) ListByAuthor(ctx context.Context, authorID primitive.ObjectID, journalID string) ([]models.Entry, error) {
	filter := bson.M{"authorId": authorID}
	if journalID != "" {
		oid, err := primitive.ObjectIDFromHex(journalID)
		if err != nil {
			// An unparseable journal filter cannot match any entry
			return []models.Entry{}, nil
		}
		filter["journalId"] = oid
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := s.c.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	entries := []models.Entry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, mapMongoErr(err)
	}
	return entries, nil
}

func (s *mongoEntries) FindScoped(ctx context.Context, id string, authorID primitive.ObjectID) (*models.Entry, error) {
	filter, err := scopedFilter(id, "authorId", authorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	var entry models.Entry
	if err := s.c.FindOne(ctx, filter).Decode(&entry); err != nil {
		return nil, mapMongoErr(err)
	}
	return &entry, nil
}

func (s *mongoEntries) UpdateScoped(ctx context.Context, id string, authorID primitive.ObjectID, update EntryUpdate) (*models.Entry, error) {
	filter, err := scopedFilter(id, "authorId", authorID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.JournalID != nil {
		set["journalId"] = *update.JournalID
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Mood != nil {
		set["mood"] = *update.Mood
	}
	if update.Weather != nil {
		set["weather"] = *update.Weather
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}
	if update.IsPublic != nil {
		set["isPublic"] = *update.IsPublic
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var entry models.Entry
	if err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&entry); err != nil {
		return nil, mapMongoErr(err)
	}
	return &entry, nil
}

func (s *mongoEntries) DeleteScoped(ctx context.Context, id string, authorID primitive.ObjectID) (*models.Entry, error) {
	filter, err := scopedFilter(id, "authorId", authorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	var entry models.Entry
	if err := s.c.FindOneAndDelete(ctx, filter).Decode(&entry); err != nil {
		return nil, mapMongoErr(err)
	}
	return &entry, nil
}
