package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/spokes/internal/models"
)

// Shared HTTP client for all outbound service calls.
var httpClient = &http.Client{Timeout: 15 * time.Second}

// GraphClient talks to the Messenger Graph API: the Send API for
// outbound messages and the profile endpoint for first names.
type GraphClient struct {
	baseURL     string
	accessToken string
}

// NewGraphClient creates a GraphClient rooted at baseURL.
func NewGraphClient(baseURL, accessToken string) *GraphClient {
	return &GraphClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

type graphParty struct {
	ID string `json:"id"`
}

type graphTextMessage struct {
	Text string `json:"text"`
}

type graphMessagePayload struct {
	Recipient graphParty `json:"recipient"`
	Message   any        `json:"message"`
}

type graphSenderAction struct {
	Recipient    graphParty `json:"recipient"`
	SenderAction string     `json:"sender_action"`
}

type graphAttachment struct {
	Type    string               `json:"type"`
	Payload graphTemplatePayload `json:"payload"`
}

type graphTemplatePayload struct {
	TemplateType string                `json:"template_type"`
	Elements     []models.TemplateCard `json:"elements"`
}

type graphAttachmentMessage struct {
	Attachment graphAttachment `json:"attachment"`
}

type graphProfileResponse struct {
	FirstName string `json:"first_name"`
}

// SendText delivers a plain text message to the recipient.
func (g *GraphClient) SendText(ctx context.Context, recipientID, text string) error {
	return g.callSendAPI(ctx, graphMessagePayload{
		Recipient: graphParty{ID: recipientID},
		Message:   graphTextMessage{Text: text},
	})
}

// SendTemplate delivers a generic template with one card per element.
func (g *GraphClient) SendTemplate(ctx context.Context, recipientID string, cards []models.TemplateCard) error {
	return g.callSendAPI(ctx, graphMessagePayload{
		Recipient: graphParty{ID: recipientID},
		Message: graphAttachmentMessage{
			Attachment: graphAttachment{
				Type: "template",
				Payload: graphTemplatePayload{
					TemplateType: "generic",
					Elements:     cards,
				},
			},
		},
	})
}

// SendTypingIndicator signals the recipient that a reply is in progress.
func (g *GraphClient) SendTypingIndicator(ctx context.Context, recipientID string) error {
	return g.callSendAPI(ctx, graphSenderAction{
		Recipient:    graphParty{ID: recipientID},
		SenderAction: "typing_on",
	})
}

// FetchFirstName looks up a user's first name via the profile endpoint.
func (g *GraphClient) FetchFirstName(ctx context.Context, userID string) (string, error) {
	if g.accessToken == "" {
		log.Println("[Graph] Access token not configured")
		return "", nil
	}

	endpoint := fmt.Sprintf("%s/%s?fields=first_name&access_token=%s",
		g.baseURL, url.PathEscape(userID), url.QueryEscape(g.accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create profile request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute profile request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read profile response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var profile graphProfileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", fmt.Errorf("unmarshal profile response: %w", err)
	}
	return profile.FirstName, nil
}

func (g *GraphClient) callSendAPI(ctx context.Context, payload any) error {
	if g.accessToken == "" {
		log.Println("[Graph] Access token not configured")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", g.baseURL, url.QueryEscape(g.accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Printf("[Graph] Unable to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Graph] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("send API returned status %d", resp.StatusCode)
	}

	return nil
}
