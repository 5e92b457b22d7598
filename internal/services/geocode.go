package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/example/spokes/internal/models"
)

// GeocodeClient resolves free-text addresses through the Google
// Geocoding API.
type GeocodeClient struct {
	baseURL string
	apiKey  string
}

// NewGeocodeClient creates a GeocodeClient rooted at baseURL.
func NewGeocodeClient(baseURL, apiKey string) *GeocodeClient {
	return &GeocodeClient{baseURL: baseURL, apiKey: apiKey}
}

type geocodeResponse struct {
	Status  string          `json:"status"`
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Resolve maps text to zero, one or many address candidates.
func (g *GeocodeClient) Resolve(ctx context.Context, text string) ([]models.AddressCandidate, error) {
	query := url.Values{}
	query.Set("address", text)
	if g.apiKey != "" {
		query.Set("key", g.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create geocode request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read geocode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal geocode response: %w", err)
	}

	switch decoded.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("geocode request rejected: status %s", decoded.Status)
	}

	candidates := make([]models.AddressCandidate, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		loc := models.Coordinates{Lat: result.Geometry.Location.Lat, Lon: result.Geometry.Location.Lng}
		candidates = append(candidates, models.AddressCandidate{
			FormattedAddress: result.FormattedAddress,
			Location:         loc,
			MapImageURL:      g.staticMapURL(loc),
		})
	}
	return candidates, nil
}

// staticMapURL builds a marker-pinned map thumbnail for a candidate,
// shown on disambiguation cards.
func (g *GeocodeClient) staticMapURL(loc models.Coordinates) string {
	return fmt.Sprintf(
		"https://maps.googleapis.com/maps/api/staticmap?center=%[1]f,%[2]f&zoom=15&size=400x400&markers=color:red%%7Clabel:S%%7C%[1]f,%[2]f&key=%[3]s",
		loc.Lat, loc.Lon, url.QueryEscape(g.apiKey))
}
