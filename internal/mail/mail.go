package mail

import (
	"context"
	"errors"
	"net/mail"
)

var ErrNoRecipients = errors.New("no recipients")

type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ValidAddress reports whether addr is a single bare RFC 5322 address.
func ValidAddress(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}
	return parsed.Address == addr
}
