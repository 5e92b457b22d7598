package models

// AddressCandidate is one geocoding result for a free-text address.
// Transient; exists only within the resolution step of a single turn.
type AddressCandidate struct {
	FormattedAddress string      `json:"formatted_address"`
	Location         Coordinates `json:"location"`
	MapImageURL      string      `json:"map_image_url,omitempty"`
}

// TemplateCard is one selectable element of an outbound structured message.
type TemplateCard struct {
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle,omitempty"`
	ImageURL string           `json:"image_url,omitempty"`
	Buttons  []TemplateButton `json:"buttons,omitempty"`
}

// TemplateButton is a tappable button on a TemplateCard.
type TemplateButton struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// StationStatus describes one bike-share station near a queried location.
type StationStatus struct {
	ID             string      `json:"station_id"`
	Name           string      `json:"name"`
	Location       Coordinates `json:"location"`
	BikesAvailable int         `json:"bikes_available"`
	DocksAvailable int         `json:"docks_available"`
	DistanceMeters float64     `json:"distance_meters"`
}

// NetworkSummary aggregates availability across the whole bike network.
type NetworkSummary struct {
	Stations       int `json:"stations"`
	BikesAvailable int `json:"bikes_available"`
	DocksAvailable int `json:"docks_available"`
}
