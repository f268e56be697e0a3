package mmsgate

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mkarras/sms-bridge/internal/domain"
)

const deliverTimeout = time.Second * 10

// Client talks to the mmsgate relay, which delivers messages to the SIP
// softphone. The relay's receive endpoint takes no auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type deliverRequest struct {
	From        string   `json:"from"`
	Message     string   `json:"message"`
	Type        string   `json:"type"`
	Attachments []string `json:"attachments,omitempty"`
}

// Deliver posts a cellular-origin message to the relay's receive endpoint.
// Attachments are passed through as received; the relay resolves them.
func (c *Client) Deliver(ctx context.Context, msg domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()

	body, _ := json.Marshal(deliverRequest{
		From:        msg.From,
		Message:     msg.Body,
		Type:        string(msg.Kind()),
		Attachments: msg.Attachments,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mms/receive", bytes.NewReader(body))
	if err != nil {
		return &domain.DownstreamError{Op: "relay_deliver", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.DownstreamError{Op: "relay_deliver", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &domain.DownstreamError{Op: "relay_deliver", Status: resp.StatusCode}
	}

	c.logger.Info("delivered to mmsgate", "from", msg.From, "type", msg.Kind())
	return nil
}
