package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/timecapsule-app/timecapsule-backend/internal/middleware"
	"github.com/timecapsule-app/timecapsule-backend/internal/response"
	"github.com/timecapsule-app/timecapsule-backend/internal/services"
	"github.com/timecapsule-app/timecapsule-backend/internal/store"
	"github.com/timecapsule-app/timecapsule-backend/internal/validation"
)

type CreateJournalRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color"`
	CoverImage  string `json:"coverImage" validate:"omitempty,url"`
	IsShared    bool   `json:"isShared"`
}

// UpdateJournalRequest is the partial form of CreateJournalRequest: absent
// fields are left unchanged.
type UpdateJournalRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color"`
	CoverImage  *string `json:"coverImage" validate:"omitempty,url"`
	IsShared    *bool   `json:"isShared"`
}

// JournalHandler translates the /journal routes into journal service calls.
type JournalHandler struct {
	journals *services.JournalService
}

func NewJournalHandler(journals *services.JournalService) *JournalHandler {
	return &JournalHandler{journals: journals}
}

// Create handles POST /journal.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	var req CreateJournalRequest
	if err := validation.Body(r.Body, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	journal, err := h.journals.Create(r.Context(), identity.UserID, services.CreateJournalInput{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		CoverImage:  req.CoverImage,
		IsShared:    req.IsShared,
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusCreated, journal, "Journal created")
}

// List handles GET /journal.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	journals, err := h.journals.List(r.Context(), identity.UserID)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, journals, "Journals fetched")
}

// Get handles GET /journal/{id}.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	journal, err := h.journals.Get(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, journal, "Journal fetched")
}

// Update handles PATCH /journal/{id}.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	var req UpdateJournalRequest
	if err := validation.Body(r.Body, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	journal, err := h.journals.Update(r.Context(), chi.URLParam(r, "id"), identity.UserID, store.JournalUpdate{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		CoverImage:  req.CoverImage,
		IsShared:    req.IsShared,
	})
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, journal, "Journal updated")
}

// Delete handles DELETE /journal/{id}.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request, identity middleware.Identity) {
	journal, err := h.journals.Delete(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, journal, "Journal deleted")
}
