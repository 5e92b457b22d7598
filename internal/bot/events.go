// Package bot holds the conversational core: the event classifier, the
// onboarding slot-filling state machine and the intent router. It talks
// to the outside world only through the capability interfaces in bot.go
// and the store contract, never through ambient globals.
package bot

import "github.com/example/spokes/internal/models"

// WebhookPayload is the body of a page-subscription callback. One
// delivery may batch several entries, each with several messaging events.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the messaging events of one page subscription.
type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is one inbound event. Exactly one of Message, Postback,
// Delivery and Optin is set on a well-formed event.
type MessagingEvent struct {
	Sender    Party     `json:"sender"`
	Recipient Party     `json:"recipient"`
	Timestamp int64     `json:"timestamp"`
	Message   *Message  `json:"message,omitempty"`
	Postback  *Postback `json:"postback,omitempty"`
	Delivery  *Delivery `json:"delivery,omitempty"`
	Optin     *Optin    `json:"optin,omitempty"`
}

// Party identifies a conversation participant.
type Party struct {
	ID string `json:"id"`
}

// Message carries free text and/or attachments.
type Message struct {
	MID         string       `json:"mid,omitempty"`
	Text        string       `json:"text,omitempty"`
	StickerID   int64        `json:"sticker_id,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is one message attachment; Type is location, image, audio,
// video or file.
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload carries either a media URL or device coordinates.
type AttachmentPayload struct {
	URL         string                 `json:"url,omitempty"`
	Coordinates *AttachmentCoordinates `json:"coordinates,omitempty"`
}

// AttachmentCoordinates is the platform's wire shape for a shared location.
type AttachmentCoordinates struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Postback is the payload of a tapped structured-message button.
type Postback struct {
	Payload string `json:"payload"`
}

// Delivery confirms messages delivered up to a watermark.
type Delivery struct {
	MIDs      []string `json:"mids"`
	Watermark int64    `json:"watermark"`
	Seq       int      `json:"seq"`
}

// Optin is the authentication callback of the "Send to Messenger" plugin.
type Optin struct {
	Ref string `json:"ref"`
}

// EventType is the category an inbound event classifies into.
type EventType string

const (
	EventAuthentication  EventType = "authentication"
	EventMessage         EventType = "message"
	EventDeliveryReceipt EventType = "deliveryReceipt"
	EventPostback        EventType = "postback"
	EventUnknown         EventType = "unknown"
)

// Classify categorizes an event by field presence, checked in a fixed
// order so an event carrying several fields lands in one bucket.
func Classify(ev MessagingEvent) EventType {
	switch {
	case ev.Optin != nil:
		return EventAuthentication
	case ev.Message != nil:
		return EventMessage
	case ev.Delivery != nil:
		return EventDeliveryReceipt
	case ev.Postback != nil:
		return EventPostback
	default:
		return EventUnknown
	}
}

// ReplyText extracts the free-text answer carried by an event: message
// text if present, otherwise a postback payload.
func ReplyText(ev MessagingEvent) string {
	if ev.Message != nil && ev.Message.Text != "" {
		return ev.Message.Text
	}
	if ev.Postback != nil {
		return ev.Postback.Payload
	}
	return ""
}

// LocationAttachment returns device-provided coordinates when the event
// carries a location attachment, nil otherwise.
func LocationAttachment(ev MessagingEvent) *models.Coordinates {
	if ev.Message == nil || len(ev.Message.Attachments) == 0 {
		return nil
	}
	att := ev.Message.Attachments[0]
	if att.Type != "location" || att.Payload.Coordinates == nil {
		return nil
	}
	return &models.Coordinates{Lat: att.Payload.Coordinates.Lat, Lon: att.Payload.Coordinates.Long}
}
