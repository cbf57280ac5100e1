package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type authService interface {
	Authenticate(ctx context.Context, username, password string) (*Admin, error)
	Login(ctx context.Context, admin *Admin, ipAddress, userAgent string) (*LoginResult, error)
	LoginFailed(username string)
	ChangePassword(ctx context.Context, adminID int, currentPassword, newPassword string) (*ChangePasswordResult, error)
	RequestPasswordReset(ctx context.Context, usernameOrEmail string) (string, error)
	VerifyResetOtp(ctx context.Context, usernameOrEmail, otp string) (*OTPVerification, error)
	ResetPasswordWithOtp(ctx context.Context, usernameOrEmail, otp, newPassword string) (string, error)
	ValidateSession(ctx context.Context, sessionID string) (bool, error)
	InvalidateSession(ctx context.Context, sessionID string) error
	InvalidateAdminSession(ctx context.Context, adminID int, sessionID string) error
	GetActiveSessions(ctx context.Context, adminID int) ([]Session, error)
}

// RouteMiddlewares are built by the server from the middleware package.
type RouteMiddlewares struct {
	RequireToken           mux.MiddlewareFunc
	RequireTokenAndSession mux.MiddlewareFunc
	LoginRateLimit         mux.MiddlewareFunc
	PasswordResetRateLimit mux.MiddlewareFunc
}

type Handler struct {
	service authService
}

func NewHandler(service authService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router, mw RouteMiddlewares) {
	authRouter := router.PathPrefix("/auth").Subrouter()

	loginRouter := authRouter.NewRoute().Subrouter()
	loginRouter.HandleFunc("/login", h.handleLogin).Methods("POST", "OPTIONS").Name("login")
	if mw.LoginRateLimit != nil {
		loginRouter.Use(mw.LoginRateLimit)
	}

	resetRouter := authRouter.NewRoute().Subrouter()
	resetRouter.HandleFunc("/forgot-password", h.handleForgotPassword).Methods("POST", "OPTIONS").Name("forgot-password")
	resetRouter.HandleFunc("/verify-reset-otp", h.handleVerifyResetOtp).Methods("POST", "OPTIONS").Name("verify-reset-otp")
	resetRouter.HandleFunc("/reset-password", h.handleResetPassword).Methods("POST", "OPTIONS").Name("reset-password")
	if mw.PasswordResetRateLimit != nil {
		resetRouter.Use(mw.PasswordResetRateLimit)
	}

	// the session routes inspect the session header themselves
	tokenRouter := authRouter.NewRoute().Subrouter()
	tokenRouter.HandleFunc("/logout", h.handleLogout).Methods("POST", "OPTIONS").Name("logout")
	tokenRouter.HandleFunc("/validate-session", h.handleValidateSession).Methods("POST", "OPTIONS").Name("validate-session")
	tokenRouter.Use(mw.RequireToken)

	adminRouter := authRouter.NewRoute().Subrouter()
	adminRouter.HandleFunc("/change-password", h.handleChangePassword).Methods("POST", "OPTIONS").Name("change-password")
	adminRouter.HandleFunc("/sessions", h.handleGetSessions).Methods("GET", "OPTIONS").Name("sessions")
	adminRouter.HandleFunc("/sessions/{id}/invalidate", h.handleInvalidateSession).Methods("POST", "OPTIONS").Name("invalidate-session")
	adminRouter.HandleFunc("/profile", h.handleProfile).Methods("GET", "OPTIONS").Name("profile")
	adminRouter.Use(mw.RequireTokenAndSession)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		pkg.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, "authenticate", err)
		return
	}
	if admin == nil {
		h.service.LoginFailed(req.Username)
		pkg.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	result, err := h.service.Login(r.Context(), admin, pkg.ReadUserIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, "login", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, result)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.ChangePassword(r.Context(), principal.AdminID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, "change password", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, result)
}

type passwordResetRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"newPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UsernameOrEmail == "" {
		pkg.WriteError(w, http.StatusBadRequest, "Username or email is required")
		return
	}

	message, err := h.service.RequestPasswordReset(r.Context(), req.UsernameOrEmail)
	if err != nil {
		writeServiceError(w, "request password reset", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, messageResponse{Message: message})
}

func (h *Handler) handleVerifyResetOtp(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UsernameOrEmail == "" || req.OTP == "" {
		pkg.WriteError(w, http.StatusBadRequest, "Username/email and OTP are required")
		return
	}

	verification, err := h.service.VerifyResetOtp(r.Context(), req.UsernameOrEmail, req.OTP)
	if err != nil {
		writeServiceError(w, "verify reset otp", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, verification)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UsernameOrEmail == "" || req.OTP == "" || req.NewPassword == "" {
		pkg.WriteError(w, http.StatusBadRequest, "Username/email, OTP, and new password are required")
		return
	}

	message, err := h.service.ResetPasswordWithOtp(r.Context(), req.UsernameOrEmail, req.OTP, req.NewPassword)
	if err != nil {
		writeServiceError(w, "reset password", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, messageResponse{Message: message})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID := r.Header.Get(SessionHeader); sessionID != "" {
		if err := h.service.InvalidateSession(r.Context(), sessionID); err != nil {
			writeServiceError(w, "logout", err)
			return
		}
	}

	pkg.WriteJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

type validateSessionResponse struct {
	Valid bool `json:"valid"`
}

func (h *Handler) handleValidateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		pkg.WriteError(w, http.StatusUnauthorized, "Session ID is required")
		return
	}

	valid, err := h.service.ValidateSession(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, "validate session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, validateSessionResponse{Valid: valid})
}

func (h *Handler) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	sessions, err := h.service.GetActiveSessions(r.Context(), principal.AdminID)
	if err != nil {
		writeServiceError(w, "get sessions", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handleInvalidateSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	sessionID := mux.Vars(r)["id"]
	if sessionID == "" {
		pkg.WriteError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	if err := h.service.InvalidateAdminSession(r.Context(), principal.AdminID, sessionID); err != nil {
		writeServiceError(w, "invalidate session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, messageResponse{Message: "Session invalidated successfully"})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, AdminInfo{ID: principal.AdminID, Username: principal.Username})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	return pkg.DecodeJSONBody(w, r, dst)
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, message := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
	}
	pkg.WriteError(w, status, message)
}
