package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/placepix/placepix/internal/service"
	"github.com/placepix/placepix/models"
)

// ImagesAPI is what the image handlers need from the orchestrator.
type ImagesAPI interface {
	Ingest(ctx context.Context, userUUID string, items []json.RawMessage) ([]service.ItemError, error)
	ListAll(ctx context.Context) ([]models.Image, error)
	ListByOwner(ctx context.Context, userUUID string) ([]service.Summary, error)
	Delete(ctx context.Context, imageUUID string) error
	ListTags(ctx context.Context) ([]models.Tag, error)
}

type uploadRequest struct {
	UserUUID string            `json:"userUuid"`
	Images   []json.RawMessage `json:"images"`
}

// UploadImagesHandler ingests a batch of base64 images for one owner.
func UploadImagesHandler(w http.ResponseWriter, r *http.Request, api ImagesAPI) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]string{{"userUuid": req.UserUUID, "message": "Invalid request body."}},
		})
		return
	}
	if req.UserUUID == "" || req.Images == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]string{{"userUuid": req.UserUUID, "message": "userUuid and images are required."}},
		})
		return
	}

	itemErrs, err := api.Ingest(r.Context(), req.UserUUID, req.Images)
	if err != nil {
		log.Println("Failed to ingest images:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	if len(itemErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": itemErrs})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Images uploaded successfully"})
}

// GetImagesHandler lists every image, or one owner's images when the uuid
// query parameter is present.
func GetImagesHandler(w http.ResponseWriter, r *http.Request, api ImagesAPI) {
	userUUID := r.URL.Query().Get("uuid")

	if userUUID == "" {
		images, err := api.ListAll(r.Context())
		if err != nil {
			log.Println("Failed to list images:", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			return
		}
		if images == nil {
			images = []models.Image{}
		}
		writeJSON(w, http.StatusOK, images)
		return
	}

	summaries, err := api.ListByOwner(r.Context(), userUUID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found or has no images yet"})
			return
		}
		log.Println("Failed to list user images:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// DeleteImageHandler removes one image by uuid, stored object included.
func DeleteImageHandler(w http.ResponseWriter, r *http.Request, api ImagesAPI) {
	imageUUID := r.URL.Query().Get("uuid")
	if imageUUID == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Please provide image uuid"})
		return
	}

	if err := api.Delete(r.Context(), imageUUID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Image not found"})
			return
		}
		log.Println("Failed to delete image:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Image successfully deleted"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println("Failed to encode response:", err)
	}
}
