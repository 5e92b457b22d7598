package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/spokes/internal/bot"
	"github.com/example/spokes/internal/models"
	"github.com/example/spokes/internal/store"
)

// WebhookHandler receives messaging-platform callbacks and fans each
// event out to the onboarding state machine or the intent router.
type WebhookHandler struct {
	validationToken string
	store           store.UserStore
	onboarding      *bot.Onboarding
	router          *bot.Router
}

func NewWebhookHandler(validationToken string, st store.UserStore, onboarding *bot.Onboarding, router *bot.Router) *WebhookHandler {
	return &WebhookHandler{
		validationToken: validationToken,
		store:           st,
		onboarding:      onboarding,
		router:          router,
	}
}

// Verify answers the subscription handshake on GET /webhook.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	if c.Query("hub.mode") == "subscribe" && c.Query("hub.verify_token") == h.validationToken {
		log.Println("[Webhook] Validating webhook")
		return c.SendString(c.Query("hub.challenge"))
	}

	log.Println("[Webhook] Failed validation. Make sure the validation tokens match.")
	return c.SendStatus(fiber.StatusForbidden)
}

// Receive handles POST /webhook. Every messaging event is dispatched on
// its own goroutine and the platform is acked immediately; it expects a
// 200 within its timeout regardless of downstream outcome.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload bot.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Object != "page" {
		return c.SendStatus(fiber.StatusOK)
	}

	for _, entry := range payload.Entry {
		for _, ev := range entry.Messaging {
			go h.processEvent(context.Background(), ev)
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

// processEvent runs one turn: classify, resolve the user record where
// the category calls for it, then hand off to onboarding or the router.
// Failures end the turn with a log line; nothing propagates to the ack.
func (h *WebhookHandler) processEvent(ctx context.Context, ev bot.MessagingEvent) {
	switch bot.Classify(ev) {
	case bot.EventDeliveryReceipt:
		h.recordDelivery(ctx, ev)
	case bot.EventAuthentication:
		rec, err := h.store.GetOrCreate(ctx, ev.Sender.ID)
		if err != nil {
			log.Printf("[Webhook] resolve user %s: %v", ev.Sender.ID, err)
			return
		}
		if !rec.IsSetup {
			h.onboarding.HandleTurn(ctx, rec, ev)
		}
	case bot.EventMessage:
		rec, err := h.store.GetOrCreate(ctx, ev.Sender.ID)
		if err != nil {
			log.Printf("[Webhook] resolve user %s: %v", ev.Sender.ID, err)
			return
		}
		if !rec.IsSetup {
			h.onboarding.HandleTurn(ctx, rec, ev)
		} else {
			h.router.HandleMessage(ctx, rec, ev.Message)
		}
	case bot.EventPostback:
		rec, err := h.store.GetOrCreate(ctx, ev.Sender.ID)
		if err != nil {
			log.Printf("[Webhook] resolve user %s: %v", ev.Sender.ID, err)
			return
		}
		if !rec.IsSetup {
			// A mid-setup postback carries a disambiguation selection;
			// the state machine treats its payload as free text.
			h.onboarding.HandleTurn(ctx, rec, ev)
		} else {
			log.Printf("[Webhook] ignoring postback from set-up user %s: %s", ev.Sender.ID, ev.Postback.Payload)
		}
	default:
		log.Printf("[Webhook] received unknown messaging event from %s", ev.Sender.ID)
	}
}

func (h *WebhookHandler) recordDelivery(ctx context.Context, ev bot.MessagingEvent) {
	delivery := ev.Delivery
	for _, mid := range delivery.MIDs {
		log.Printf("[Webhook] Received delivery confirmation for message ID: %s", mid)
	}
	log.Printf("[Webhook] All messages before %d were delivered.", delivery.Watermark)

	receipt := &models.DeliveryReceipt{
		UserID:     ev.Sender.ID,
		Watermark:  delivery.Watermark,
		Seq:        delivery.Seq,
		MessageIDs: delivery.MIDs,
	}
	if err := h.store.RecordDeliveryReceipt(ctx, receipt); err != nil {
		log.Printf("[Webhook] record delivery receipt for %s: %v", ev.Sender.ID, err)
	}
}
