package fossify

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

// MMS sends get a longer deadline than SMS; the payload carries the media.
const (
	smsTimeout = time.Second * 30
	mmsTimeout = time.Second * 60
)

// Client talks to the Fossify Messages API, the outbound cellular-send side
// of the bridge. All calls authenticate with a bearer token and fail with
// *domain.DownstreamError; nothing is retried.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, authToken string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type sendRequest struct {
	PhoneNumber string   `json:"phoneNumber"`
	Message     string   `json:"message"`
	Attachments []string `json:"attachments,omitempty"`
}

// SendSMS delivers a plain text message over the cellular network.
func (c *Client) SendSMS(ctx context.Context, to, body string) (domain.SendResult, error) {
	result, err := c.send(ctx, "send_sms", "/send_sms", sendRequest{
		PhoneNumber: to,
		Message:     body,
	}, smsTimeout)
	if err != nil {
		return domain.SendResult{}, err
	}
	c.logger.Info("sms sent via fossify", "to", to)
	return result, nil
}

// SendMMS delivers a message with base64-encoded attachments.
func (c *Client) SendMMS(ctx context.Context, to, body string, attachments []string) (domain.SendResult, error) {
	result, err := c.send(ctx, "send_mms", "/send_mms", sendRequest{
		PhoneNumber: to,
		Message:     body,
		Attachments: attachments,
	}, mmsTimeout)
	if err != nil {
		return domain.SendResult{}, err
	}
	c.logger.Info("mms sent via fossify", "to", to, "attachments", len(attachments))
	return result, nil
}

func (c *Client) send(ctx context.Context, op, path string, payload sendRequest, timeout time.Duration) (domain.SendResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.SendResult{}, &domain.DownstreamError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SendResult{}, &domain.DownstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.SendResult{}, &domain.DownstreamError{Op: op, Status: resp.StatusCode}
	}

	// The downstream id is optional; callers fall back to a generated one.
	var result domain.SendResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("unparsable fossify response", "op", op, "error", err.Error())
		return domain.SendResult{}, nil
	}

	return result, nil
}
