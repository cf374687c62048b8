package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const placesAutocompleteURL = "https://maps.googleapis.com/maps/api/place/autocomplete/json"

// maxPredictions caps how many autocomplete descriptions are passed back.
const maxPredictions = 5

// Locations proxies city autocomplete to the Places API.
type Locations struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewLocations(apiKey string) *Locations {
	return &Locations{
		apiKey:  apiKey,
		baseURL: placesAutocompleteURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Autocomplete returns up to five prediction descriptions for the input.
func (l *Locations) Autocomplete(ctx context.Context, input string) ([]string, error) {
	query := url.Values{}
	query.Set("input", input)
	query.Set("types", "(cities)")
	query.Set("key", l.apiKey)
	query.Set("sessiontoken", uuid.NewString())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build places request: %w", err)
	}

	res, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places request: unexpected status %d", res.StatusCode)
	}

	var payload struct {
		Predictions []struct {
			Description string `json:"description"`
		} `json:"predictions"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}

	descriptions := make([]string, 0, maxPredictions)
	for _, p := range payload.Predictions {
		if len(descriptions) == maxPredictions {
			break
		}
		descriptions = append(descriptions, p.Description)
	}
	return descriptions, nil
}
