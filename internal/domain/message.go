package domain

import "strings"

type MessageKind string

const (
	KindSMS MessageKind = "sms"
	KindMMS MessageKind = "mms"
)

// Message is the bridge's protocol-neutral representation of a single
// SMS or MMS. One is built per inbound request and discarded after the
// response is written; nothing is persisted.
type Message struct {
	From        string
	To          string
	Body        string
	Attachments []string // base64 payloads, already resolved
}

// Kind derives the message class from attachment presence. It is a method
// rather than a field so no code path can record a kind that disagrees
// with the attachment list.
func (m Message) Kind() MessageKind {
	if len(m.Attachments) > 0 {
		return KindMMS
	}
	return KindSMS
}

// SendResult carries what the cellular-send API reported for a dispatched
// message. ID may be empty when the downstream omits one.
type SendResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// NormalizeNumber ensures a destination number carries a leading "+".
// Already-prefixed numbers pass through unchanged.
func NormalizeNumber(number string) string {
	if number == "" || strings.HasPrefix(number, "+") {
		return number
	}
	return "+" + number
}

// FirstNonEmpty resolves an ordered list of field-name aliases to the
// first value a caller actually set.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
