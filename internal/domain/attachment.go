package domain

import "strings"

type RefKind int

const (
	// RefInline marks an attachment that is already base64 payload data.
	RefInline RefKind = iota
	// RefRemote marks an attachment given as a URL that still needs fetching.
	RefRemote
)

// AttachmentRef is a pre-resolution attachment reference. Resolution turns
// every remote reference into inline payload data or drops it.
type AttachmentRef struct {
	Kind  RefKind
	Value string
}

// ClassifyRef tags a raw media entry. Anything carrying an http(s) scheme
// is a remote locator; everything else is assumed to be base64 already.
func ClassifyRef(value string) AttachmentRef {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return AttachmentRef{Kind: RefRemote, Value: value}
	}
	return AttachmentRef{Kind: RefInline, Value: value}
}

// ClassifyRefs tags a media list, preserving order.
func ClassifyRefs(values []string) []AttachmentRef {
	refs := make([]AttachmentRef, 0, len(values))
	for _, v := range values {
		refs = append(refs, ClassifyRef(v))
	}
	return refs
}
