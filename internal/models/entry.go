package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// ImageMeta describes one image attached to an entry.
type ImageMeta struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id,omitempty" json:"public_id,omitempty"`
	Width    int    `bson:"width,omitempty" json:"width,omitempty"`
	Height   int    `bson:"height,omitempty" json:"height,omitempty"`
	Caption  string `bson:"caption,omitempty" json:"caption,omitempty"`
}

// Entry is a single journaling post. It belongs to exactly one journal and
// exactly one author; every query against entries is scoped by authorId.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Title     string             `bson:"title" json:"title"`
	JournalID primitive.ObjectID `bson:"journalId" json:"journalId"`
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	Content   string             `bson:"content" json:"content"`
	Mood      string             `bson:"mood,omitempty" json:"mood,omitempty"`
	Weather   string             `bson:"weather,omitempty" json:"weather,omitempty"`
	Location  *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	Images    []ImageMeta        `bson:"images" json:"images"`
	IsPublic  bool               `bson:"isPublic" json:"isPublic"`
	Tags      []string           `bson:"tags" json:"tags"`
}
