// Package mail sends transactional email through an SMTP relay. Delivery is
// fire-and-forget from the caller's perspective: failures are reported
// synchronously and never retried.
package mail

import "context"

// Attachment is embedded into the message. A non-empty CID makes it
// referencable from the HTML body as an inline image (cid:...).
type Attachment struct {
	Filename string
	MimeType string
	Content  []byte
	CID      string
}

// Message is one outbound email with plain-text and HTML alternatives.
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender dispatches a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
