package contact

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/newsroom/internal/mail"
)

const (
	MaxNameLength    = 100
	MaxSubjectLength = 150
	MaxMessageLength = 2000
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrNameTooLong     = errors.New("name must be at most 100 characters")
	ErrInvalidEmail    = errors.New("email must be a valid email address")
	ErrSubjectTooLong  = errors.New("subject must be at most 150 characters")
	ErrMessageRequired = errors.New("message is required")
	ErrMessageTooLong  = errors.New("message must be at most 2000 characters")
)

type Message struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IPAddress *string   `json:"ipAddress,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// normalize trims the fields and checks them, the first problem found is returned.
func (m *Message) normalize() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)

	switch {
	case m.Name == "":
		return ErrNameRequired
	case utf8.RuneCountInString(m.Name) > MaxNameLength:
		return ErrNameTooLong
	case !mail.ValidAddress(m.Email):
		return ErrInvalidEmail
	case utf8.RuneCountInString(m.Subject) > MaxSubjectLength:
		return ErrSubjectTooLong
	case m.Message == "":
		return ErrMessageRequired
	case utf8.RuneCountInString(m.Message) > MaxMessageLength:
		return ErrMessageTooLong
	}
	return nil
}

func (m *Message) form() mail.ContactForm {
	return mail.ContactForm{
		Name:    m.Name,
		Email:   m.Email,
		Subject: m.Subject,
		Message: m.Message,
	}
}
