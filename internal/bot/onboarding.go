package bot

import (
	"context"
	"log"

	"github.com/example/spokes/internal/models"
	"github.com/example/spokes/internal/store"
)

// Onboarding advances a user record through the setup questions, one
// inbound event at a time.
type Onboarding struct {
	store     store.UserStore
	geocoder  Geocoder
	messenger Messenger
}

// NewOnboarding creates the onboarding state machine.
func NewOnboarding(st store.UserStore, geocoder Geocoder, messenger Messenger) *Onboarding {
	return &Onboarding{store: st, geocoder: geocoder, messenger: messenger}
}

// HandleTurn processes one inbound event for a user who is not set up
// yet: capture the answer to the pending question (if any), then ask the
// next unfilled one or finish setup. The record is persisted after every
// turn that ran to the ask-next step; a turn suspended mid-capture (a
// failed or ambiguous geocoding pass) leaves the stored record untouched.
func (o *Onboarding) HandleTurn(ctx context.Context, rec *models.UserRecord, ev MessagingEvent) {
	if rec.QuestionAsked != models.SlotNone {
		if reply := ReplyText(ev); reply != "" {
			if isAddressSlot(rec.QuestionAsked) {
				if suspended := o.captureAddress(ctx, rec, reply); suspended {
					return
				}
			} else {
				o.captureTime(rec, reply)
			}
		} else if loc := LocationAttachment(ev); loc != nil && isAddressSlot(rec.QuestionAsked) {
			setAddress(&rec.Prefs, rec.QuestionAsked, *loc)
		}
	}

	o.askNext(ctx, rec)
}

// captureAddress geocodes the reply for the pending address slot. The
// returned flag is true when the turn must stop before ask-next: either
// the resolver failed, or the answer was ambiguous and a selection
// template was sent instead.
func (o *Onboarding) captureAddress(ctx context.Context, rec *models.UserRecord, reply string) bool {
	candidates, err := o.geocoder.Resolve(ctx, reply)
	if err != nil {
		log.Printf("[Onboarding] resolve %q for user %s: %v", reply, rec.UserID, err)
		return true
	}

	switch len(candidates) {
	case 0:
		clearAddress(&rec.Prefs, rec.QuestionAsked)
		o.send(ctx, rec.UserID, "I couldn't find that address.")
		return false
	case 1:
		setAddress(&rec.Prefs, rec.QuestionAsked, candidates[0].Location)
		return false
	default:
		// Ambiguous answer: offer every candidate as a tappable card whose
		// postback payload is the formatted address. The next turn geocodes
		// the selected string again, which is expected to collapse to one
		// candidate.
		clearAddress(&rec.Prefs, rec.QuestionAsked)
		cards := make([]models.TemplateCard, 0, len(candidates))
		for _, candidate := range candidates {
			cards = append(cards, models.TemplateCard{
				Title:    candidate.FormattedAddress,
				ImageURL: candidate.MapImageURL,
				Buttons: []models.TemplateButton{{
					Type:    "postback",
					Title:   "Select address",
					Payload: candidate.FormattedAddress,
				}},
			})
		}
		if err := o.messenger.SendTemplate(ctx, rec.UserID, cards); err != nil {
			log.Printf("[Onboarding] send selection template to %s: %v", rec.UserID, err)
		}
		return true
	}
}

func (o *Onboarding) captureTime(rec *models.UserRecord, reply string) {
	switch rec.QuestionAsked {
	case models.SlotMorningAlertTime:
		rec.Prefs.MorningAlertTime = reply
	case models.SlotEveningAlertTime:
		rec.Prefs.EveningAlertTime = reply
	}
}

// askNext scans the preferences in fill order and either asks the first
// unfilled question or completes setup, then persists the record.
func (o *Onboarding) askNext(ctx context.Context, rec *models.UserRecord) {
	if next, ok := NextSlot(rec.Prefs); ok {
		rec.QuestionAsked = next
		o.send(ctx, rec.UserID, prompt(next, rec.FirstName))
	} else {
		rec.QuestionAsked = models.SlotNone
		rec.IsSetup = true
		o.send(ctx, rec.UserID, setupCompleteMessage)
	}

	// The prompt is already out, so a failed write leaves record and
	// conversation inconsistent for one turn. Accepted; logged only.
	if err := o.store.Upsert(ctx, rec); err != nil {
		log.Printf("[Onboarding] persist user %s: %v", rec.UserID, err)
	}
}

func (o *Onboarding) send(ctx context.Context, userID, text string) {
	if err := o.messenger.SendText(ctx, userID, text); err != nil {
		log.Printf("[Onboarding] send to %s: %v", userID, err)
	}
}
