package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/timecapsule-app/timecapsule-backend/internal/apperr"
	"github.com/timecapsule-app/timecapsule-backend/internal/models"
	"github.com/timecapsule-app/timecapsule-backend/internal/store"
)

// CreateEntryInput carries the client-settable entry fields. Any
// client-supplied author id is dropped before this point; the author is
// stamped from the authenticated caller.
type CreateEntryInput struct {
	Title     string
	JournalID string
	Content   string
	Mood      string
	Weather   string
	Location  *models.GeoPoint
	Images    []models.ImageMeta
	IsPublic  bool
	Tags      []string
}

// UpdateEntryInput is the partial form of CreateEntryInput: nil leaves a
// field unchanged.
type UpdateEntryInput struct {
	Title     *string
	JournalID *string
	Content   *string
	Mood      *string
	Weather   *string
	Location  *models.GeoPoint
	Images    *[]models.ImageMeta
	IsPublic  *bool
	Tags      *[]string
}

// EntryService performs author-scoped CRUD on entries.
type EntryService struct {
	entries store.EntryStore
	now     nowFunc
}

func NewEntryService(entries store.EntryStore) *EntryService {
	return &EntryService{entries: entries, now: defaultNow}
}

func (s *EntryService) Create(ctx context.Context, userID string, in CreateEntryInput) (*models.Entry, error) {
	author, err := callerID(userID)
	if err != nil {
		return nil, err
	}

	journalID, err := primitive.ObjectIDFromHex(in.JournalID)
	if err != nil {
		return nil, apperr.BadRequest("Invalid journal id")
	}

	images := in.Images
	if images == nil {
		images = []models.ImageMeta{}
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now()
	entry := &models.Entry{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     in.Title,
		JournalID: journalID,
		AuthorID:  author,
		Content:   in.Content,
		Mood:      in.Mood,
		Weather:   in.Weather,
		Location:  in.Location,
		Images:    images,
		IsPublic:  in.IsPublic,
		Tags:      tags,
	}

	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the caller's entries, optionally filtered to one journal.
func (s *EntryService) List(ctx context.Context, userID, journalID string) ([]models.Entry, error) {
	author, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	return s.entries.ListByAuthor(ctx, author, journalID)
}

func (s *EntryService) Get(ctx context.Context, id, userID string) (*models.Entry, error) {
	author, err := callerID(userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.entries.FindScoped(ctx, id, author)
	if err != nil {
		return nil, mapEntryErr(err)
	}
	return entry, nil
}

func (s *EntryService) Update(ctx context.Context, id, userID string, in UpdateEntryInput) (*models.Entry, error) {
	author, err := callerID(userID)
	if err != nil {
		return nil, err
	}

	update := store.EntryUpdate{
		Title:    in.Title,
		Content:  in.Content,
		Mood:     in.Mood,
		Weather:  in.Weather,
		Location: in.Location,
		Images:   in.Images,
		IsPublic: in.IsPublic,
		Tags:     in.Tags,
	}
	if in.JournalID != nil {
		journalID, err := primitive.ObjectIDFromHex(*in.JournalID)
		if err != nil {
			return nil, apperr.BadRequest("Invalid journal id")
		}
		update.JournalID = &journalID
	}

	entry, err := s.entries.UpdateScoped(ctx, id, author, update)
	if err != nil {
		return nil, mapEntryErr(err)
	}
	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, id, userID string) (*models.Entry, error) {
	author, err := callerID(userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.entries.DeleteScoped(ctx, id, author)
	if err != nil {
		return nil, mapEntryErr(err)
	}
	return entry, nil
}

// mapEntryErr surfaces "absent" and "not owned" identically.
func mapEntryErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Entry not found")
	}
	return err
}
