package service

import (
	"context"
	"log/slog"

	"github.com/mkarras/sms-bridge/internal/domain"
)

// CellularSender is the outbound cellular-send API (Fossify).
type CellularSender interface {
	SendSMS(ctx context.Context, to, body string) (domain.SendResult, error)
	SendMMS(ctx context.Context, to, body string, attachments []string) (domain.SendResult, error)
}

// RelayDeliverer is the SIP-relay receive endpoint (mmsgate).
type RelayDeliverer interface {
	Deliver(ctx context.Context, msg domain.Message) error
}

// MediaResolver resolves attachment references into base64 payloads.
type MediaResolver interface {
	Resolve(ctx context.Context, ref domain.AttachmentRef) (string, error)
}

// MessageRouter is what the HTTP handlers program against.
type MessageRouter interface {
	DeliverToRelay(ctx context.Context, msg domain.Message) error
	SendViaCellular(ctx context.Context, to, body string, refs []domain.AttachmentRef) (domain.SendResult, domain.MessageKind, error)
}

// Bridge routes canonical messages between the cellular side and the SIP
// side. It holds no per-message state; concurrent requests never interact.
type Bridge struct {
	cellular CellularSender
	relay    RelayDeliverer
	resolver MediaResolver
	logger   *slog.Logger
}

func NewBridge(cellular CellularSender, relay RelayDeliverer, resolver MediaResolver, logger *slog.Logger) MessageRouter {
	return &Bridge{
		cellular: cellular,
		relay:    relay,
		resolver: resolver,
		logger:   logger,
	}
}

// DeliverToRelay forwards a cellular-origin message to the SIP relay.
// Attachment references are passed through unresolved; the relay side owns
// resolution for this direction.
func (b *Bridge) DeliverToRelay(ctx context.Context, msg domain.Message) error {
	b.logger.Info("forwarding to relay", "from", msg.From, "type", msg.Kind())
	return b.relay.Deliver(ctx, msg)
}

// SendViaCellular resolves the given references and dispatches the message
// downstream: MMS when at least one attachment resolved, SMS otherwise.
// Demotion to SMS when every attachment fails is deliberate; losing media
// is tolerated, losing the message is not.
func (b *Bridge) SendViaCellular(ctx context.Context, to, body string, refs []domain.AttachmentRef) (domain.SendResult, domain.MessageKind, error) {
	msg := domain.Message{
		To:          to,
		Body:        body,
		Attachments: b.resolveAll(ctx, refs),
	}

	if msg.Kind() == domain.KindMMS {
		result, err := b.cellular.SendMMS(ctx, to, body, msg.Attachments)
		return result, domain.KindMMS, err
	}
	if len(refs) > 0 {
		b.logger.Info("no attachments resolved, sending as sms", "to", to)
	}
	result, err := b.cellular.SendSMS(ctx, to, body)
	return result, domain.KindSMS, err
}

// resolveAll resolves each reference independently, dropping failures.
func (b *Bridge) resolveAll(ctx context.Context, refs []domain.AttachmentRef) []string {
	if len(refs) == 0 {
		return nil
	}
	resolved := make([]string, 0, len(refs))
	for _, ref := range refs {
		payload, err := b.resolver.Resolve(ctx, ref)
		if err != nil {
			b.logger.Error("dropping attachment", "error", err.Error())
			continue
		}
		resolved = append(resolved, payload)
	}
	if len(resolved) == 0 {
		return nil
	}
	return resolved
}
