package auth

import (
	"time"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	DefaultOTPTTL     = 10 * time.Minute
	MinPasswordLength = 6

	// SessionHeader carries the opaque session id next to the bearer token.
	SessionHeader = "X-Session-Id"
)

type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminInfo is the minimal admin view handed out to clients.
type AdminInfo struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func (a *Admin) Info() AdminInfo {
	return AdminInfo{ID: a.ID, Username: a.Username}
}

type Session struct {
	ID           int       `json:"id"`
	SessionID    string    `json:"sessionId"`
	AdminID      int       `json:"-"`
	IPAddress    *string   `json:"ipAddress"`
	UserAgent    *string   `json:"userAgent"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	ExpiresAt    time.Time `json:"expiresAt"`
	IsActive     bool      `json:"-"`
}

// UsableAt reports whether the session can authorize requests at t.
func (s *Session) UsableAt(t time.Time) bool {
	return s.IsActive && t.Before(s.ExpiresAt)
}

// PasswordReset holds a one-time code; only its keyed hash is stored.
type PasswordReset struct {
	ID        int
	Username  string
	OTPHash   string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// ExpiredAt reports whether the code is no longer usable at t, the expiry instant included.
func (p *PasswordReset) ExpiredAt(t time.Time) bool {
	return !t.Before(p.ExpiresAt)
}

type LoginResult struct {
	AccessToken string    `json:"access_token"`
	SessionID   string    `json:"session_id"`
	Admin       AdminInfo `json:"admin"`
}

type ChangePasswordResult struct {
	Message string    `json:"message"`
	Admin   AdminInfo `json:"admin"`
}

type OTPVerification struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username"`
}
