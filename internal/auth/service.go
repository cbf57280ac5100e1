package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/newsroom/internal/mail"
	"github.com/2beens/newsroom/internal/telemetry/metrics"
	"github.com/2beens/newsroom/internal/telemetry/tracing"
	"github.com/2beens/newsroom/pkg"
)

const PasswordResetRequestedMessage = "If an account with that username or email exists, a password reset OTP has been sent."

// compared against when the username is unknown, same cost as real hashes
var dummyPasswordHash = mustHash("unknown-admin-placeholder")

func mustHash(password string) string {
	hash, err := pkg.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}

type store interface {
	CreateAdmin(ctx context.Context, admin *Admin) error
	AdminByID(ctx context.Context, id int) (*Admin, error)
	AdminByUsername(ctx context.Context, username string) (*Admin, error)
	AdminByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*Admin, error)
	UpdatePasswordHash(ctx context.Context, adminID int, passwordHash string) error

	CreateSession(ctx context.Context, s *Session) error
	SessionBySessionID(ctx context.Context, sessionID string) (*Session, error)
	TouchSession(ctx context.Context, sessionID string, at time.Time) error
	DeactivateSession(ctx context.Context, sessionID string) (int64, error)
	DeactivateAdminSession(ctx context.Context, adminID int, sessionID string) (int64, error)
	DeactivateAdminSessions(ctx context.Context, adminID int, exceptSessionID string) (int64, error)
	ActiveSessions(ctx context.Context, adminID int, now time.Time) ([]Session, error)
	DeactivateExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	CreatePasswordReset(ctx context.Context, pr *PasswordReset) error
	DeleteUnusedPasswordResets(ctx context.Context, username string) (int64, error)
	LatestPasswordReset(ctx context.Context, username, otpHash string) (*PasswordReset, error)
	MarkPasswordResetUsed(ctx context.Context, id int) error
	DeleteExpiredPasswordResets(ctx context.Context, username, otpHash string, now time.Time) (int64, error)
}

type ServiceParams struct {
	Repo           store
	Tokens         *TokenIssuer
	Mailer         mail.Sender
	MetricsManager *metrics.Manager
	// OTPSecret keys the stored reset code hashes
	OTPSecret  string
	SiteName   string
	SessionTTL time.Duration
	OTPTTL     time.Duration
}

type Service struct {
	repo           store
	tokens         *TokenIssuer
	mailer         mail.Sender
	metricsManager *metrics.Manager
	otp            otpHasher
	siteName       string
	sessionTTL     time.Duration
	otpTTL         time.Duration

	// swappable in tests
	now             func() time.Time
	RandHexFunc     func(n int) (string, error)
	GenerateOTPFunc func() (string, error)
}

func NewService(params ServiceParams) *Service {
	if params.SessionTTL <= 0 {
		params.SessionTTL = DefaultSessionTTL
	}
	if params.OTPTTL <= 0 {
		params.OTPTTL = DefaultOTPTTL
	}
	if params.Mailer == nil {
		params.Mailer = mail.LogSender{}
	}
	if params.MetricsManager == nil {
		params.MetricsManager = metrics.NewTestManager()
	}
	if params.SiteName == "" {
		params.SiteName = "Newsroom"
	}
	return &Service{
		repo:            params.Repo,
		tokens:          params.Tokens,
		mailer:          params.Mailer,
		metricsManager:  params.MetricsManager,
		otp:             otpHasher{key: []byte(params.OTPSecret)},
		siteName:        params.SiteName,
		sessionTTL:      params.SessionTTL,
		otpTTL:          params.OTPTTL,
		now:             time.Now,
		RandHexFunc:     pkg.GenerateRandomHex,
		GenerateOTPFunc: GenerateOTP,
	}
}

// SetClock replaces the time source of the service and its token issuer.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	if s.tokens != nil {
		s.tokens.now = now
	}
}

// Authenticate returns the admin for valid credentials and (nil, nil) otherwise.
// Unknown usernames cost the same bcrypt comparison as wrong passwords.
func (s *Service) Authenticate(ctx context.Context, username, password string) (_ *Admin, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.authenticate")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	admin, err := s.repo.AdminByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrAdminNotFound) {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	if admin == nil {
		pkg.CheckPasswordHash(password, dummyPasswordHash)
		return nil, nil
	}
	if !pkg.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, nil
	}

	return admin, nil
}

func (s *Service) Login(ctx context.Context, admin *Admin, ipAddress, userAgent string) (_ *LoginResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.login")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("admin.id", admin.ID))

	accessToken, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	sessionID, err := s.RandHexFunc(32)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now()
	session := &Session{
		SessionID:    sessionID,
		AdminID:      admin.ID,
		IPAddress:    optional(ipAddress),
		UserAgent:    optional(userAgent),
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.sessionTTL),
		IsActive:     true,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metricsManager.CounterLogins.With(prometheus.Labels{"outcome": "success"}).Inc()
	log.Debugf("admin [%s] logged in, session expires at %s", admin.Username, session.ExpiresAt.Format(time.RFC3339))

	return &LoginResult{
		AccessToken: accessToken,
		SessionID:   sessionID,
		Admin:       admin.Info(),
	}, nil
}

// LoginFailed records a rejected login attempt.
func (s *Service) LoginFailed(username string) {
	s.metricsManager.CounterLogins.With(prometheus.Labels{"outcome": "invalid_credentials"}).Inc()
	log.Warnf("failed login attempt for username [%s]", username)
}

func (s *Service) ChangePassword(ctx context.Context, adminID int, currentPassword, newPassword string) (_ *ChangePasswordResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.changepassword")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if currentPassword == "" || newPassword == "" {
		return nil, BadRequest("Current password and new password are required")
	}
	if len(newPassword) < MinPasswordLength {
		return nil, BadRequest("New password must be at least 6 characters long")
	}

	result, err := s.changePassword(ctx, adminID, currentPassword, newPassword)
	if err != nil {
		if KindOf(err) != KindInternal {
			return nil, err
		}
		return nil, BadRequest("Failed to update password: " + err.Error())
	}
	return result, nil
}

func (s *Service) changePassword(ctx context.Context, adminID int, currentPassword, newPassword string) (*ChangePasswordResult, error) {
	admin, err := s.repo.AdminByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, Unauthorized("Admin not found")
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(currentPassword, admin.PasswordHash) {
		return nil, Unauthorized("Current password is incorrect")
	}
	if pkg.CheckPasswordHash(newPassword, admin.PasswordHash) {
		return nil, BadRequest("New password must be different from current password")
	}

	newHash, err := pkg.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, admin.ID, newHash); err != nil {
		return nil, err
	}

	// read back and check the stored hash accepts the new password
	stored, err := s.repo.AdminByID(ctx, admin.ID)
	if err != nil {
		return nil, errors.New("failed to verify password update")
	}
	if !pkg.CheckPasswordHash(newPassword, stored.PasswordHash) {
		return nil, errors.New("password update verification failed")
	}

	log.Infof("admin [%s] changed password", admin.Username)
	return &ChangePasswordResult{
		Message: "Password changed successfully",
		Admin:   admin.Info(),
	}, nil
}

// RequestPasswordReset answers with the same message whether or not the account exists.
func (s *Service) RequestPasswordReset(ctx context.Context, usernameOrEmail string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.requestpasswordreset")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if usernameOrEmail == "" {
		return "", BadRequest("Username or email is required")
	}

	admin, err := s.repo.AdminByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			s.countReset("request", "unknown_account")
			return PasswordResetRequestedMessage, nil
		}
		return "", fmt.Errorf("get admin: %w", err)
	}

	if admin.Email == nil || *admin.Email == "" {
		log.Warnf("password reset requested for admin [%s] without an email address, no otp created", admin.Username)
		s.countReset("request", "no_email")
		return PasswordResetRequestedMessage, nil
	}

	otp, err := s.GenerateOTPFunc()
	if err != nil {
		return "", err
	}

	now := s.now()
	if _, err := s.repo.DeleteUnusedPasswordResets(ctx, admin.Username); err != nil {
		return "", fmt.Errorf("delete previous otps: %w", err)
	}
	if err := s.repo.CreatePasswordReset(ctx, &PasswordReset{
		Username:  admin.Username,
		OTPHash:   s.otp.hash(admin.Username, otp),
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	msg, err := mail.PasswordResetMessage(s.siteName, *admin.Email, otp, s.otpTTL)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		// not surfaced to the caller
		log.Errorf("failed to send password reset email to admin [%s]: %s", admin.Username, err)
		s.countReset("request", "mail_failed")
		return PasswordResetRequestedMessage, nil
	}

	s.countReset("request", "sent")
	return PasswordResetRequestedMessage, nil
}

func (s *Service) VerifyResetOtp(ctx context.Context, usernameOrEmail, otp string) (_ *OTPVerification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.verifyresetotp")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if usernameOrEmail == "" || otp == "" {
		return nil, BadRequest("Username/email and OTP are required")
	}

	admin, _, err := s.checkOTP(ctx, usernameOrEmail, otp)
	if err != nil {
		s.countReset("verify", "rejected")
		return nil, err
	}

	s.countReset("verify", "ok")
	return &OTPVerification{Valid: true, Username: admin.Username}, nil
}

func (s *Service) ResetPasswordWithOtp(ctx context.Context, usernameOrEmail, otp, newPassword string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.resetpassword")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if usernameOrEmail == "" || otp == "" || newPassword == "" {
		return "", BadRequest("Username/email, OTP, and new password are required")
	}
	if len(newPassword) < MinPasswordLength {
		return "", BadRequest("New password must be at least 6 characters long")
	}

	admin, reset, err := s.checkOTP(ctx, usernameOrEmail, otp)
	if err != nil {
		s.countReset("reset", "rejected")
		return "", err
	}

	if pkg.CheckPasswordHash(newPassword, admin.PasswordHash) {
		return "", BadRequest("New password must be different from current password")
	}

	newHash, err := pkg.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, admin.ID, newHash); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}
	if err := s.repo.MarkPasswordResetUsed(ctx, reset.ID); err != nil {
		return "", fmt.Errorf("mark otp used: %w", err)
	}
	if _, err := s.repo.DeleteUnusedPasswordResets(ctx, admin.Username); err != nil {
		return "", fmt.Errorf("purge unused otps: %w", err)
	}

	s.countReset("reset", "ok")
	log.Infof("admin [%s] reset password with otp", admin.Username)
	return "Password has been reset successfully", nil
}

// checkOTP resolves the account and its newest reset record matching otp.
func (s *Service) checkOTP(ctx context.Context, usernameOrEmail, otp string) (*Admin, *PasswordReset, error) {
	admin, err := s.repo.AdminByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, nil, NotFound("Admin account not found")
		}
		return nil, nil, fmt.Errorf("get admin: %w", err)
	}

	otpHash := s.otp.hash(admin.Username, otp)
	reset, err := s.repo.LatestPasswordReset(ctx, admin.Username, otpHash)
	if err != nil {
		if errors.Is(err, ErrPasswordResetNotFound) {
			return nil, nil, BadRequest("Invalid OTP")
		}
		return nil, nil, fmt.Errorf("get otp: %w", err)
	}

	if reset.Used {
		return nil, nil, BadRequest("This OTP has already been used")
	}

	now := s.now()
	if reset.ExpiredAt(now) {
		if _, err := s.repo.DeleteExpiredPasswordResets(ctx, admin.Username, otpHash, now); err != nil {
			log.Errorf("delete expired otp of admin [%s]: %s", admin.Username, err)
		}
		return nil, nil, BadRequest("This OTP has expired. Please request a new one.")
	}

	return admin, reset, nil
}

func (s *Service) countReset(stage, outcome string) {
	s.metricsManager.CounterPasswordResets.With(prometheus.Labels{"stage": stage, "outcome": outcome}).Inc()
}

// ValidateSession reports whether the session is usable, deactivating it when expired
// and bumping its last activity otherwise.
func (s *Service) ValidateSession(ctx context.Context, sessionID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.validatesession")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if sessionID == "" {
		return false, nil
	}

	session, err := s.repo.SessionBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get session: %w", err)
	}

	if !session.IsActive {
		return false, nil
	}

	now := s.now()
	if !session.UsableAt(now) {
		if _, err := s.repo.DeactivateSession(ctx, sessionID); err != nil {
			return false, fmt.Errorf("deactivate expired session: %w", err)
		}
		s.metricsManager.CounterSessionsInvalidated.Inc()
		return false, nil
	}

	if err := s.repo.TouchSession(ctx, sessionID, now); err != nil {
		return false, fmt.Errorf("touch session: %w", err)
	}
	return true, nil
}

func (s *Service) InvalidateSession(ctx context.Context, sessionID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.invalidatesession")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	n, err := s.repo.DeactivateSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	s.metricsManager.CounterSessionsInvalidated.Add(float64(n))
	return nil
}

// InvalidateAdminSession deactivates sessionID only if it belongs to adminID.
func (s *Service) InvalidateAdminSession(ctx context.Context, adminID int, sessionID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.invalidateadminsession")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	n, err := s.repo.DeactivateAdminSession(ctx, adminID, sessionID)
	if err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	s.metricsManager.CounterSessionsInvalidated.Add(float64(n))
	return nil
}

// InvalidateAllSessions deactivates every active session of the admin except exceptSessionID (if set).
func (s *Service) InvalidateAllSessions(ctx context.Context, adminID int, exceptSessionID string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.invalidateallsessions")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	n, err := s.repo.DeactivateAdminSessions(ctx, adminID, exceptSessionID)
	if err != nil {
		return 0, fmt.Errorf("deactivate sessions: %w", err)
	}
	s.metricsManager.CounterSessionsInvalidated.Add(float64(n))
	return n, nil
}

func (s *Service) GetActiveSessions(ctx context.Context, adminID int) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.activesessions")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	sessions, err := s.repo.ActiveSessions(ctx, adminID, s.now())
	if err != nil {
		return nil, fmt.Errorf("get active sessions: %w", err)
	}
	return sessions, nil
}

// CleanupExpiredSessions deactivates expired sessions and returns the number of rows touched,
// already inactive ones included. Nothing in the service schedules it.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.cleanupsessions")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	n, err := s.repo.DeactivateExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	log.Infof("sessions cleanup: %d sessions deactivated", n)
	return n, nil
}

// AdminByID is used by the token guard to make sure the token subject still exists.
func (s *Service) AdminByID(ctx context.Context, id int) (*Admin, error) {
	return s.repo.AdminByID(ctx, id)
}

// Seed creates the admin unless one with the same username exists. Returns whether it was created.
func (s *Service) Seed(ctx context.Context, username, password, email string) (bool, error) {
	if username == "" || password == "" {
		return false, errors.New("username and password are required")
	}

	if _, err := s.repo.AdminByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrAdminNotFound) {
		return false, fmt.Errorf("get admin: %w", err)
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.CreateAdmin(ctx, &Admin{
		Username:     username,
		PasswordHash: hash,
		Email:        optional(email),
	}); err != nil {
		if errors.Is(err, ErrAdminExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
