package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkarras/sms-bridge/internal/domain"
)

const fetchTimeout = time.Second * 30

// Resolver turns attachment references into portable base64 payloads.
type Resolver interface {
	Resolve(ctx context.Context, ref domain.AttachmentRef) (string, error)
}

// HTTPResolver fetches remote locators over HTTP. Inline references pass
// through untouched. No retries, no caching; every call is independent.
type HTTPResolver struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPResolver(logger *slog.Logger) *HTTPResolver {
	return &HTTPResolver{
		// Client timeout stays unset; each fetch carries its own deadline
		// derived from the request context.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Resolve returns the reference's payload as base64. A remote locator that
// cannot be fetched fails with *domain.AttachmentFetchError; the caller is
// expected to drop the item, not the message.
func (r *HTTPResolver) Resolve(ctx context.Context, ref domain.AttachmentRef) (string, error) {
	if ref.Kind == domain.RefInline {
		return ref.Value, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.Value, nil)
	if err != nil {
		return "", &domain.AttachmentFetchError{Locator: ref.Value, Err: err}
	}

	r.logger.Info("downloading media", "url", ref.Value)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", &domain.AttachmentFetchError{Locator: ref.Value, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &domain.AttachmentFetchError{
			Locator: ref.Value,
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.AttachmentFetchError{Locator: ref.Value, Err: err}
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}
