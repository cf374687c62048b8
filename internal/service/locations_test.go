package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placesServer(t *testing.T, descriptions []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "paris", r.URL.Query().Get("input"))
		assert.Equal(t, "(cities)", r.URL.Query().Get("types"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.NotEmpty(t, r.URL.Query().Get("sessiontoken"))

		type prediction struct {
			Description string `json:"description"`
		}
		var predictions []prediction
		for _, d := range descriptions {
			predictions = append(predictions, prediction{Description: d})
		}
		json.NewEncoder(w).Encode(map[string]any{"predictions": predictions})
	}))
}

func TestAutocompleteTrimsToFive(t *testing.T) {
	srv := placesServer(t, []string{"a", "b", "c", "d", "e", "f", "g"})
	defer srv.Close()

	loc := NewLocations("test-key")
	loc.baseURL = srv.URL

	got, err := loc.Autocomplete(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestAutocompleteFewPredictions(t *testing.T) {
	srv := placesServer(t, []string{"Paris, France"})
	defer srv.Close()

	loc := NewLocations("test-key")
	loc.baseURL = srv.URL

	got, err := loc.Autocomplete(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris, France"}, got)
}

func TestAutocompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	loc := NewLocations("test-key")
	loc.baseURL = srv.URL

	_, err := loc.Autocomplete(context.Background(), "paris")
	assert.Error(t, err)
}
