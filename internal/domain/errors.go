package domain

import "fmt"

// ErrUnauthorized rejects a webhook call whose bearer token does not match
// the shared secret. Checked before the body is parsed. The message doubles
// as the wire-level error string.
var ErrUnauthorized = fmt.Errorf("Unauthorized")

// MissingFieldError reports a required field absent from an inbound payload.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// AttachmentFetchError reports a remote media reference that could not be
// resolved. Always recoverable: callers drop the item and keep the message.
type AttachmentFetchError struct {
	Locator string
	Err     error
}

func (e *AttachmentFetchError) Error() string {
	return fmt.Sprintf("fetch attachment %s: %v", e.Locator, e.Err)
}

func (e *AttachmentFetchError) Unwrap() error { return e.Err }

// DownstreamError reports a failed outbound call. Status is the HTTP status
// when one was received, zero on transport failure. Never retried.
type DownstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *DownstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DownstreamError) Unwrap() error { return e.Err }

// UnsupportedMethodError reports an unknown method on the provider
// emulation endpoint. Error() is the exact wire message the real provider's
// clients expect to see.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("Method %s not supported by bridge", e.Method)
}
