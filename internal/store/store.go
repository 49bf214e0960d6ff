package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/timecapsule-app/timecapsule-backend/internal/models"
)

var (
	// ErrNotFound is returned when no document matches a scoped lookup.
	// Callers cannot tell "absent" from "not owned"; both surface as this.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = errors.New("store: duplicate key")
)

// UserStore persists user accounts.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByVerifyToken(ctx context.Context, token string) (*models.User, error)
	// MarkVerified flips the verified flag and clears the verification token
	// and its expiry in one atomic update.
	MarkVerified(ctx context.Context, id string) error
}

// JournalUpdate carries the fields a journal PATCH may change. Nil means
// "leave unchanged".
type JournalUpdate struct {
	Title       *string
	Description *string
	Color       *string
	CoverImage  *string
	IsShared    *bool
}

// JournalStore persists journals. Every read/update/delete is scoped by the
// owner id in a single atomic operation.
type JournalStore interface {
	Insert(ctx context.Context, journal *models.Journal) error
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Journal, error)
	FindScoped(ctx context.Context, id string, ownerID primitive.ObjectID) (*models.Journal, error)
	UpdateScoped(ctx context.Context, id string, ownerID primitive.ObjectID, update JournalUpdate) (*models.Journal, error)
	DeleteScoped(ctx context.Context, id string, ownerID primitive.ObjectID) (*models.Journal, error)
}

// EntryUpdate carries the fields an entry PATCH may change. Nil means
// "leave unchanged".
type EntryUpdate struct {
	Title     *string
	JournalID *primitive.ObjectID
	Content   *string
	Mood      *string
	Weather   *string
	Location  *models.GeoPoint
	Images    *[]models.ImageMeta
	IsPublic  *bool
	Tags      *[]string
}

// EntryStore persists entries. Every read/update/delete is scoped by the
// author id in a single atomic operation.
type EntryStore interface {
	Insert(ctx context.Context, entry *models.Entry) error
	// ListByAuthor returns the author's entries, optionally filtered to one
	// journal when journalID is non-empty.
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID, journalID string) ([]models.Entry, error)
	FindScoped(ctx context.Context, id string, authorID primitive.ObjectID) (*models.Entry, error)
	UpdateScoped(ctx context.Context, id string, authorID primitive.ObjectID, update EntryUpdate) (*models.Entry, error)
	DeleteScoped(ctx context.Context, id string, authorID primitive.ObjectID) (*models.Entry, error)
}
