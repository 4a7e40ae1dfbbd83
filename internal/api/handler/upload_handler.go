package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"codeconnect/internal/api/middleware"
	"codeconnect/internal/common"
	"codeconnect/internal/platform/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Uploaded images are capped at 5 MiB.
const maxUploadBytes = 5 << 20

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type UploadHandler struct {
	bucket storage.BucketService
}

func NewUploadHandler(bucket storage.BucketService) *UploadHandler {
	return &UploadHandler{bucket: bucket}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.uploadImage)
}

func (h *UploadHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if h.bucket == nil {
		common.RespondWithError(w, http.StatusServiceUnavailable, "Uploads are not available")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Only jpg, jpeg and png images are allowed")
		return
	}

	key := fmt.Sprintf("uploads/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := h.bucket.UploadFile(r.Context(), key, contentType, file)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	common.RespondWithJSON(w, http.StatusCreated, map[string]string{"url": url})
}
