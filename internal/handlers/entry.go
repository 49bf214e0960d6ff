package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/timecapsule-app/timecapsule-backend/internal/middleware"
	"github.com/timecapsule-app/timecapsule-backend/internal/models"
	"github.com/timecapsule-app/timecapsule-backend/internal/response"
	"github.com/timecapsule-app/timecapsule-backend/internal/services"
	"github.com/timecapsule-app/timecapsule-backend/internal/validation"
)

type GeoPointPayload struct {
	Type        string    `json:"type" validate:"required,eq=Point"`
	Coordinates []float64 `json:"coordinates" validate:"len=2"`
}

type ImageMetaPayload struct {
	URL      string `json:"url" validate:"required"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Caption  string `json:"caption"`
}

type CreateEntryRequest struct {
	Title     string             `json:"title" validate:"required"`
	JournalID string             `json:"journalId" validate:"required,len=24,hexadecimal"`
	AuthorID  string             `json:"authorId"` // accepted but ignored; the author comes from the session
	Content   string             `json:"content"`
	Mood      string             `json:"mood"`
	Weather   string             `json:"weather"`
	Location  *GeoPointPayload   `json:"location"`
	Images    []ImageMetaPayload `json:"images" validate:"omitempty,dive"`
	IsPublic  bool               `json:"isPublic"`
	Tags      []string           `json:"tags"`
}

// UpdateEntryRequest is the partial form of CreateEntryRequest: absent fields
// are left unchanged.
type UpdateEntryRequest struct {
	Title     *string             `json:"title" validate:"omitempty,min=1"`
	JournalID *string             `json:"journalId" validate:"omitempty,len=24,hexadecimal"`
	Content   *string             `json:"content"`
	Mood      *string             `json:"mood"`
	Weather   *string             `json:"weather"`
	Location  *GeoPointPayload    `json:"location"`
	Images    *[]ImageMetaPayload `json:"images" validate:"omitempty,dive"`
	IsPublic  *bool               `json:"isPublic"`
	Tags      *[]string           `json:"tags"`
}

// EntryHandler translates the /entries routes into entry service calls.
type EntryHandler struct {
	entries *services.EntryService
}

func NewEntryHandler(entries *services.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// Create handles POST /entries.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	var req CreateEntryRequest
	if err := validation.Body(r.Body, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	entry, err := h.entries.Create(r.Context(), identity.UserID, services.CreateEntryInput{
		Title:     req.Title,
		JournalID: req.JournalID,
		Content:   req.Content,
		Mood:      req.Mood,
		Weather:   req.Weather,
		Location:  toGeoPoint(req.Location),
		Images:    toImageMetas(req.Images),
		IsPublic:  req.IsPublic,
		Tags:      req.Tags,
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusCreated, entry, "Entry created")
}

// List handles GET /entries?journalId=.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	journalID := r.URL.Query().Get("journalId")

	entries, err := h.entries.List(r.Context(), identity.UserID, journalID)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, entries, "Entries fetched")
}

// Get handles GET /entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	entry, err := h.entries.Get(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, entry, "Entry fetched")
}

// Update handles PATCH /entries/{id}.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	var req UpdateEntryRequest
	if err := validation.Body(r.Body, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	in := services.UpdateEntryInput{
		Title:     req.Title,
		JournalID: req.JournalID,
		Content:   req.Content,
		Mood:      req.Mood,
		Weather:   req.Weather,
		Location:  toGeoPoint(req.Location),
		IsPublic:  req.IsPublic,
		Tags:      req.Tags,
	}
	if req.Images != nil {
		images := toImageMetas(*req.Images)
		in.Images = &images
	}

	entry, err := h.entries.Update(r.Context(), chi.URLParam(r, "id"), identity.UserID, in)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, entry, "Entry updated")
}

// Delete handles DELETE /entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	entry, err := h.entries.Delete(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, entry, "Entry deleted")
}

func toGeoPoint(p *GeoPointPayload) *models.GeoPoint {
	if p == nil {
		return nil
	}
	return &models.GeoPoint{
		Type:        p.Type,
		Coordinates: [2]float64{p.Coordinates[0], p.Coordinates[1]},
	}
}

func toImageMetas(payloads []ImageMetaPayload) []models.ImageMeta {
	if payloads == nil {
		return nil
	}
	images := make([]models.ImageMeta, 0, len(payloads))
	for _, p := range payloads {
		images = append(images, models.ImageMeta{
			URL:      p.URL,
			PublicID: p.PublicID,
			Width:    p.Width,
			Height:   p.Height,
			Caption:  p.Caption,
		})
	}
	return images
}
