package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

type SMTPSender struct {
	cfg SMTPConfig
	// overridden in tests
	sendFunc func(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error
	now      func() time.Time
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("smtp host and credentials are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	s := &SMTPSender{
		cfg: cfg,
		now: time.Now,
	}
	s.sendFunc = s.deliver
	return s, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	body, err := s.compose(msg)
	if err != nil {
		return fmt.Errorf("compose message: %w", err)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := s.sendFunc(ctx, addr, auth, s.cfg.From, msg.To, body); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	log.Debugf("mail [%s] sent to %d recipient(s)", msg.Subject, len(msg.To))
	return nil
}

func (s *SMTPSender) compose(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.From)
	}

	headers := []string{
		"From: " + from,
		"To: " + strings.Join(msg.To, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject),
		"Date: " + s.now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
	}
	if msg.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+msg.ReplyTo)
	}

	if msg.HTML == "" {
		headers = append(headers, "Content-Type: text/plain; charset=utf-8")
		buf.WriteString(strings.Join(headers, "\r\n"))
		buf.WriteString("\r\n\r\n")
		buf.WriteString(msg.Text)
		return buf.Bytes(), nil
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	for _, p := range []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	} {
		if p.body == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	headers = append(headers, "Content-Type: multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString(strings.Join(headers, "\r\n"))
	buf.WriteString("\r\n\r\n")
	buf.Write(parts.Bytes())
	return buf.Bytes(), nil
}

// deliver uses implicit TLS on port 465 and STARTTLS (via smtp.SendMail) otherwise.
func (s *SMTPSender) deliver(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.Port != 465 {
		return smtp.SendMail(addr, auth, from, to, msg)
	}

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// LogSender only logs messages. Used when SMTP is not configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	log.Warnf("smtp not configured, mail [%s] to %v not sent", msg.Subject, msg.To)
	return nil
}
