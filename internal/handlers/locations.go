package handlers

import (
	"context"
	"log"
	"net/http"
)

// LocationsAPI is the autocomplete proxy the locations handler calls.
type LocationsAPI interface {
	Autocomplete(ctx context.Context, input string) ([]string, error)
}

// GetLocationsHandler proxies city autocomplete for the given input text.
func GetLocationsHandler(w http.ResponseWriter, r *http.Request, api LocationsAPI) {
	input := r.URL.Query().Get("input")
	if input == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid location input"})
		return
	}

	locations, err := api.Autocomplete(r.Context(), input)
	if err != nil {
		log.Println("Failed to fetch locations:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	if locations == nil {
		locations = []string{}
	}
	writeJSON(w, http.StatusOK, locations)
}
