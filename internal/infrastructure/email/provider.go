package email

import "context"

// Message is a fully rendered outbound email.
type Message struct {
	To       string
	Subject  string
	Body     string
	From     string
	FromName string
}

// Provider is a pluggable delivery backend.
type Provider interface {
	SendEmail(ctx context.Context, msg *Message) error
	Name() string
}
