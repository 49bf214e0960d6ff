package services

import (
	"context"
	"errors"

	"github.com/timecapsule-app/timecapsule-backend/internal/apperr"
	"github.com/timecapsule-app/timecapsule-backend/internal/models"
	"github.com/timecapsule-app/timecapsule-backend/internal/store"
)

// CreateJournalInput carries the client-settable journal fields. The owner is
// never part of the input; it is stamped from the authenticated caller.
type CreateJournalInput struct {
	Title       string
	Description string
	Color       string
	CoverImage  string
	IsShared    bool
}

// JournalService performs owner-scoped CRUD on journals.
type JournalService struct {
	journals store.JournalStore
	now      nowFunc
}

func NewJournalService(journals store.JournalStore) *JournalService {
	return &JournalService{journals: journals, now: defaultNow}
}

func (s *JournalService) Create(ctx context.Context, userID string, in CreateJournalInput) (*models.Journal, error) {
	owner, err := callerID(userID)
	if err != nil {
		return nil, err
	}

	color := in.Color
	if color == "" {
		color = models.DefaultJournalColor
	}

	now := s.now()
	journal := &models.Journal{
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       in.Title,
		Description: in.Description,
		Color:       color,
		CoverImage:  in.CoverImage,
		IsShared:    in.IsShared,
		CreatedBy:   owner,
	}

	if err := s.journals.Insert(ctx, journal); err != nil {
		return nil, err
	}
	return journal, nil
}

func (s *JournalService) List(ctx context.Context, userID string) ([]models.Journal, error) {
	owner, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	return s.journals.ListByOwner(ctx, owner)
}

func (s *JournalService) Get(ctx context.Context, id, userID string) (*models.Journal, error) {
	owner, err := callerID(userID)
	if err != nil {
		return nil, err
	}

	journal, err := s.journals.FindScoped(ctx, id, owner)
	if err != nil {
		return nil, mapJournalErr(err)
	}
	return journal, nil
}

func (s *JournalService) Update(ctx context.Context, id, userID string, update store.JournalUpdate) (*models.Journal, error) {
	owner, err := callerID(userID)
	if err != nil {
		return nil, err
	}

	journal, err := s.journals.UpdateScoped(ctx, id, owner, update)
	if err != nil {
		return nil, mapJournalErr(err)
	}
	return journal, nil
}

func (s *JournalService) Delete(ctx context.Context, id, userID string) (*models.Journal, error) {
	owner, err := callerID(userID)
	if err != nil {
		return nil, err
	}

	journal, err := s.journals.DeleteScoped(ctx, id, owner)
	if err != nil {
		return nil, mapJournalErr(err)
	}
	return journal, nil
}

// mapJournalErr surfaces "absent" and "not owned" identically.
func mapJournalErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Journal not found")
	}
	return err
}
