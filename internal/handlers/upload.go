package handlers

import (
	"net/http"

	"github.com/timecapsule-app/timecapsule-backend/internal/middleware"
	"github.com/timecapsule-app/timecapsule-backend/internal/response"
	"github.com/timecapsule-app/timecapsule-backend/internal/services"
)

// UploadHandler uploads entry images to Cloudinary and returns metadata in
// the entry image shape.
type UploadHandler struct {
	cloudinary *services.CloudinaryService
}

func NewUploadHandler(cloudinary *services.CloudinaryService) *UploadHandler {
	return &UploadHandler{cloudinary: cloudinary}
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request, _ middleware.Identity) {
	if h.cloudinary == nil {
		response.WriteFailure(w, http.StatusInternalServerError, "File upload service not available")
		return
	}

	// 10MB cap per image
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.WriteFailure(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.WriteFailure(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "timecapsule"
	}

	result, err := h.cloudinary.UploadImageFromHeader(r.Context(), fileHeader, folder)
	if err != nil {
		response.WriteFailure(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	response.WriteSuccess(w, http.StatusOK, result, "File uploaded successfully")
}
