package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Journal is a named collection of entries owned by exactly one user.
type Journal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Color       string             `bson:"color" json:"color"`
	CoverImage  string             `bson:"coverImage" json:"coverImage"`
	IsShared    bool               `bson:"isShared" json:"isShared"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
}

// DefaultJournalColor is applied when a journal is created without a color.
const DefaultJournalColor = "#3b82f6"
