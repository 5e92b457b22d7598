package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/example/spokes/internal/models"
)

const earthRadiusMeters = 6371000

// StationClient reads bike-share availability from public GBFS feeds
// (station_information.json and station_status.json under one base URL).
type StationClient struct {
	baseURL string
}

// NewStationClient creates a StationClient rooted at baseURL.
func NewStationClient(baseURL string) *StationClient {
	return &StationClient{baseURL: strings.TrimRight(baseURL, "/")}
}

type stationInformationFeed struct {
	Data struct {
		Stations []struct {
			StationID string  `json:"station_id"`
			Name      string  `json:"name"`
			Lat       float64 `json:"lat"`
			Lon       float64 `json:"lon"`
		} `json:"stations"`
	} `json:"data"`
}

type stationStatusFeed struct {
	Data struct {
		Stations []struct {
			StationID      string `json:"station_id"`
			BikesAvailable int    `json:"num_bikes_available"`
			DocksAvailable int    `json:"num_docks_available"`
		} `json:"stations"`
	} `json:"data"`
}

// Nearest returns up to limit stations ordered by distance from loc,
// with current bike and dock availability merged in.
func (s *StationClient) Nearest(ctx context.Context, loc models.Coordinates, limit int) ([]models.StationStatus, error) {
	stations, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range stations {
		stations[i].DistanceMeters = haversine(loc, stations[i].Location)
	}
	sort.Slice(stations, func(i, j int) bool {
		return stations[i].DistanceMeters < stations[j].DistanceMeters
	})

	if limit > 0 && len(stations) > limit {
		stations = stations[:limit]
	}
	return stations, nil
}

// NetworkSummary aggregates availability across every station in the feed.
func (s *StationClient) NetworkSummary(ctx context.Context) (models.NetworkSummary, error) {
	stations, err := s.load(ctx)
	if err != nil {
		return models.NetworkSummary{}, err
	}

	summary := models.NetworkSummary{Stations: len(stations)}
	for _, station := range stations {
		summary.BikesAvailable += station.BikesAvailable
		summary.DocksAvailable += station.DocksAvailable
	}
	return summary, nil
}

func (s *StationClient) load(ctx context.Context) ([]models.StationStatus, error) {
	var info stationInformationFeed
	if err := s.fetchFeed(ctx, "station_information.json", &info); err != nil {
		return nil, err
	}

	var status stationStatusFeed
	if err := s.fetchFeed(ctx, "station_status.json", &status); err != nil {
		return nil, err
	}

	availability := make(map[string]struct{ bikes, docks int }, len(status.Data.Stations))
	for _, st := range status.Data.Stations {
		availability[st.StationID] = struct{ bikes, docks int }{st.BikesAvailable, st.DocksAvailable}
	}

	stations := make([]models.StationStatus, 0, len(info.Data.Stations))
	for _, st := range info.Data.Stations {
		entry := models.StationStatus{
			ID:       st.StationID,
			Name:     st.Name,
			Location: models.Coordinates{Lat: st.Lat, Lon: st.Lon},
		}
		if avail, ok := availability[st.StationID]; ok {
			entry.BikesAvailable = avail.bikes
			entry.DocksAvailable = avail.docks
		}
		stations = append(stations, entry)
	}
	return stations, nil
}

func (s *StationClient) fetchFeed(ctx context.Context, name string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+name, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", name, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s request failed: status %d", name, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", name, err)
	}
	return nil
}

func haversine(a, b models.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
