// Package storetest provides in-memory store implementations for tests. They
// mirror the Mongo implementations' semantics: email uniqueness on users and
// owner scoping on journals and entries.
package storetest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/timecapsule-app/timecapsule-backend/internal/models"
	"github.com/timecapsule-app/timecapsule-backend/internal/store"
)

// Users is an in-memory store.UserStore.
type Users struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by hex id
}

func NewUsers() *Users {
	return &Users{users: map[string]*models.User{}}
}

func (m *Users) Insert(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	m.users[user.ID.Hex()] = &clone
	return nil
}

func (m *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, store.ErrNotFound
}

func (m *Users) FindByVerifyToken(_ context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.VerifyToken != "" && u.VerifyToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Users) MarkVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsVerified = true
	u.VerifyToken = ""
	u.VerifyTokenExpiryDate = nil
	return nil
}

// Delete removes a user outright, for exercising "account gone" paths.
func (m *Users) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

// Entries is an in-memory store.EntryStore.
type Entries struct {
	mu      sync.Mutex
	entries map[string]*models.Entry
}

func NewEntries() *Entries {
	return &Entries{entries: map[string]*models.Entry{}}
}

func (m *Entries) Insert(_ context.Context, entry *models.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	clone := *entry
	m.entries[entry.ID.Hex()] = &clone
	return nil
}

func (m *Entries) ListByAuthor(_ context.Context, authorID primitive.ObjectID, journalID string) ([]models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []models.Entry{}
	for _, e := range m.entries {
		if e.AuthorID != authorID {
			continue
		}
		if journalID != "" && e.JournalID.Hex() != journalID {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *Entries) FindScoped(_ context.Context, id string, authorID primitive.ObjectID) (*models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || e.AuthorID != authorID {
		return nil, store.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (m *Entries) UpdateScoped(_ context.Context, id string, authorID primitive.ObjectID, update store.EntryUpdate) (*models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || e.AuthorID != authorID {
		return nil, store.ErrNotFound
	}
	if update.Title != nil {
		e.Title = *update.Title
	}
	if update.JournalID != nil {
		e.JournalID = *update.JournalID
	}
	if update.Content != nil {
		e.Content = *update.Content
	}
	if update.Mood != nil {
		e.Mood = *update.Mood
	}
	if update.Weather != nil {
		e.Weather = *update.Weather
	}
	if update.Location != nil {
		e.Location = update.Location
	}
	if update.Images != nil {
		e.Images = *update.Images
	}
	if update.IsPublic != nil {
		e.IsPublic = *update.IsPublic
	}
	if update.Tags != nil {
		e.Tags = *update.Tags
	}
	clone := *e
	return &clone, nil
}

func (m *Entries) DeleteScoped(_ context.Context, id string, authorID primitive.ObjectID) (*models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || e.AuthorID != authorID {
		return nil, store.ErrNotFound
	}
	delete(m.entries, id)
	return e, nil
}

// Journals is an in-memory store.JournalStore.
type Journals struct {
	mu       sync.Mutex
	journals map[string]*models.Journal
}

func NewJournals() *Journals {
	return &Journals{journals: map[string]*models.Journal{}}
}

func (m *Journals) Insert(_ context.Context, journal *models.Journal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if journal.ID.IsZero() {
		journal.ID = primitive.NewObjectID()
	}
	clone := *journal
	m.journals[journal.ID.Hex()] = &clone
	return nil
}

func (m *Journals) ListByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []models.Journal{}
	for _, j := range m.journals {
		if j.CreatedBy == ownerID {
			result = append(result, *j)
		}
	}
	return result, nil
}

func (m *Journals) FindScoped(_ context.Context, id string, ownerID primitive.ObjectID) (*models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.journals[id]
	if !ok || j.CreatedBy != ownerID {
		return nil, store.ErrNotFound
	}
	clone := *j
	return &clone, nil
}

func (m *Journals) UpdateScoped(_ context.Context, id string, ownerID primitive.ObjectID, update store.JournalUpdate) (*models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.journals[id]
	if !ok || j.CreatedBy != ownerID {
		return nil, store.ErrNotFound
	}
	if update.Title != nil {
		j.Title = *update.Title
	}
	if update.Description != nil {
		j.Description = *update.Description
	}
	if update.Color != nil {
		j.Color = *update.Color
	}
	if update.CoverImage != nil {
		j.CoverImage = *update.CoverImage
	}
	if update.IsShared != nil {
		j.IsShared = *update.IsShared
	}
	clone := *j
	return &clone, nil
}

func (m *Journals) DeleteScoped(_ context.Context, id string, ownerID primitive.ObjectID) (*models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.journals[id]
	if !ok || j.CreatedBy != ownerID {
		return nil, store.ErrNotFound
	}
	delete(m.journals, id)
	return j, nil
}
