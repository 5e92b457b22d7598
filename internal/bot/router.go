package bot

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/example/spokes/internal/models"
)

const nearbyStationLimit = 3

const dontUnderstandMessage = "I don't understand what you mean. Type \"help\" for a list of commands."

var (
	bikesNearPattern    = regexp.MustCompile(`^bikes near (.+)$`)
	stationsNearPattern = regexp.MustCompile(`^stations near (.+)$`)
)

// Router classifies a set-up user's input into one of the fixed commands
// and issues the corresponding status query.
type Router struct {
	geocoder  Geocoder
	messenger Messenger
	stations  StationFinder
}

// NewRouter creates the intent router.
func NewRouter(geocoder Geocoder, messenger Messenger, stations StationFinder) *Router {
	return &Router{geocoder: geocoder, messenger: messenger, stations: stations}
}

// HandleMessage routes one message event from a fully set-up user.
func (r *Router) HandleMessage(ctx context.Context, rec *models.UserRecord, msg *Message) {
	if msg == nil {
		return
	}
	if len(msg.Attachments) > 0 {
		r.handleAttachment(ctx, rec, msg)
		return
	}
	if msg.Text != "" {
		r.handleText(ctx, rec, msg.Text)
	}
}

func (r *Router) handleText(ctx context.Context, rec *models.UserRecord, text string) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	switch lowered {
	case "station information":
		r.sendTyping(ctx, rec.UserID)
		r.sendNetworkSummary(ctx, rec.UserID)
	case "bikes at work":
		r.sendStatusAtPref(ctx, rec.UserID, rec.Prefs.WorkAddress)
	case "bikes at home":
		r.sendStatusAtPref(ctx, rec.UserID, rec.Prefs.HomeAddress)
	case "notifications":
		// Not implemented yet.
	case "settings", "change settings":
		// Not implemented yet.
	case "help", "stop notifications":
		// Not implemented yet.
	default:
		match := bikesNearPattern.FindStringSubmatch(lowered)
		if match == nil {
			match = stationsNearPattern.FindStringSubmatch(lowered)
		}
		if match != nil {
			r.sendStatusNearAddress(ctx, rec.UserID, match[1])
			return
		}
		r.send(ctx, rec.UserID, dontUnderstandMessage)
	}
}

func (r *Router) handleAttachment(ctx context.Context, rec *models.UserRecord, msg *Message) {
	att := msg.Attachments[0]

	switch att.Type {
	case "location":
		if att.Payload.Coordinates == nil {
			return
		}
		r.sendTyping(ctx, rec.UserID)
		r.sendStatusNear(ctx, rec.UserID, models.Coordinates{
			Lat: att.Payload.Coordinates.Lat,
			Lon: att.Payload.Coordinates.Long,
		})
	case "image":
		if msg.StickerID != 0 {
			r.send(ctx, rec.UserID, "Cute sticker, but I can't do anything with it yet.")
		} else {
			r.send(ctx, rec.UserID, "Sorry, I can't do anything with an image yet.")
		}
	case "audio":
		r.send(ctx, rec.UserID, "Sorry, I can't do anything with audio yet.")
	case "video":
		r.send(ctx, rec.UserID, "Sorry, I can't do anything with video yet.")
	case "file":
		r.send(ctx, rec.UserID, "Sorry, I can't do anything with files yet.")
	}
}

// sendStatusAtPref queries around a saved address slot. Both addresses
// are present on any record that finished setup.
func (r *Router) sendStatusAtPref(ctx context.Context, userID string, loc *models.Coordinates) {
	if loc == nil {
		r.send(ctx, userID, dontUnderstandMessage)
		return
	}
	r.sendTyping(ctx, userID)
	r.sendStatusNear(ctx, userID, *loc)
}

// sendStatusNearAddress geocodes the free-text location and queries
// around the first candidate. Unlike onboarding capture there is no
// disambiguation on this path.
func (r *Router) sendStatusNearAddress(ctx context.Context, userID, text string) {
	r.sendTyping(ctx, userID)

	candidates, err := r.geocoder.Resolve(ctx, text)
	if err != nil {
		log.Printf("[Router] resolve %q for user %s: %v", text, userID, err)
		return
	}
	if len(candidates) == 0 {
		r.send(ctx, userID, "I couldn't find that address.")
		return
	}

	r.sendStatusNear(ctx, userID, candidates[0].Location)
}

func (r *Router) sendStatusNear(ctx context.Context, userID string, loc models.Coordinates) {
	stations, err := r.stations.Nearest(ctx, loc, nearbyStationLimit)
	if err != nil {
		log.Printf("[Router] station status for user %s: %v", userID, err)
		return
	}
	if len(stations) == 0 {
		r.send(ctx, userID, "I couldn't find any stations near there.")
		return
	}

	cards := make([]models.TemplateCard, 0, len(stations))
	for _, station := range stations {
		cards = append(cards, models.TemplateCard{
			Title:    station.Name,
			Subtitle: fmt.Sprintf("%d bikes, %d open docks", station.BikesAvailable, station.DocksAvailable),
		})
	}
	if err := r.messenger.SendTemplate(ctx, userID, cards); err != nil {
		log.Printf("[Router] send station status to %s: %v", userID, err)
	}
}

func (r *Router) sendNetworkSummary(ctx context.Context, userID string) {
	summary, err := r.stations.NetworkSummary(ctx)
	if err != nil {
		log.Printf("[Router] network summary for user %s: %v", userID, err)
		return
	}
	r.send(ctx, userID, fmt.Sprintf("The network has %d stations with %d bikes and %d open docks right now.",
		summary.Stations, summary.BikesAvailable, summary.DocksAvailable))
}

func (r *Router) sendTyping(ctx context.Context, userID string) {
	if err := r.messenger.SendTypingIndicator(ctx, userID); err != nil {
		log.Printf("[Router] typing indicator to %s: %v", userID, err)
	}
}

func (r *Router) send(ctx context.Context, userID, text string) {
	if err := r.messenger.SendText(ctx, userID, text); err != nil {
		log.Printf("[Router] send to %s: %v", userID, err)
	}
}
