package bot

import (
	"context"

	"github.com/example/spokes/internal/models"
)

// Geocoder resolves free-text input into candidate locations.
type Geocoder interface {
	Resolve(ctx context.Context, text string) ([]models.AddressCandidate, error)
}

// Messenger delivers outbound messages to a platform user. All sends are
// fire-and-forget from the core's point of view; errors are logged, never
// acted on.
type Messenger interface {
	SendText(ctx context.Context, recipientID, text string) error
	SendTemplate(ctx context.Context, recipientID string, cards []models.TemplateCard) error
	SendTypingIndicator(ctx context.Context, recipientID string) error
}

// StationFinder answers bike-share status queries.
type StationFinder interface {
	Nearest(ctx context.Context, loc models.Coordinates, limit int) ([]models.StationStatus, error)
	NetworkSummary(ctx context.Context) (models.NetworkSummary, error)
}
