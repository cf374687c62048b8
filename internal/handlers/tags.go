package handlers

import (
	"log"
	"net/http"

	"github.com/placepix/placepix/models"
)

// GetTagsHandler lists every tag seen across uploaded images.
func GetTagsHandler(w http.ResponseWriter, r *http.Request, api ImagesAPI) {
	tags, err := api.ListTags(r.Context())
	if err != nil {
		log.Println("Failed to list tags:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}
