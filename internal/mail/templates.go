package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var passwordResetHTML = template.Must(template.New("reset").Parse(`<h2>Password Reset OTP</h2>
<p>You requested to reset the password of your {{.Site}} admin account.</p>
<p>Your One-Time Password (OTP) is:</p>
<div style="font-size: 32px; font-weight: bold; color: #1e3a8a; text-align: center; padding: 20px; background-color: #f0f0f0; border-radius: 8px; margin: 20px 0;">{{.OTP}}</div>
<p><strong>This OTP is valid for {{.Minutes}} minutes.</strong></p>
<p>Enter this OTP on the password reset page along with your new password.</p>
<p>If you did not request this password reset, please ignore this email.</p>
`))

var contactHTML = template.Must(template.New("contact").Parse(`<h2>New contact message</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p style="white-space: pre-wrap;">{{.Message}}</p>
`))

// PasswordResetMessage builds the OTP mail for the given recipient.
func PasswordResetMessage(site, to, otp string, validFor time.Duration) (Message, error) {
	minutes := int(validFor.Minutes())
	var html bytes.Buffer
	if err := passwordResetHTML.Execute(&html, map[string]any{
		"Site":    site,
		"OTP":     otp,
		"Minutes": minutes,
	}); err != nil {
		return Message{}, fmt.Errorf("render reset mail: %w", err)
	}

	text := fmt.Sprintf(`Password Reset OTP

You requested to reset the password of your %s admin account.

Your One-Time Password (OTP) is: %s

This OTP is valid for %d minutes.

If you did not request this password reset, please ignore this email.
`, site, otp, minutes)

	return Message{
		To:      []string{to},
		Subject: "Password Reset OTP",
		Text:    text,
		HTML:    html.String(),
	}, nil
}

type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func ContactMessage(inbox string, form ContactForm) (Message, error) {
	var html bytes.Buffer
	if err := contactHTML.Execute(&html, form); err != nil {
		return Message{}, fmt.Errorf("render contact mail: %w", err)
	}
	subject := form.Subject
	if subject == "" {
		subject = "New message from website"
	}
	return Message{
		To:      []string{inbox},
		ReplyTo: form.Email,
		Subject: "[Contact Form] " + subject,
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s\n", form.Name, form.Email, form.Message),
		HTML:    html.String(),
	}, nil
}
