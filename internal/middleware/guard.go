package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/newsroom/internal/auth"
	"github.com/2beens/newsroom/internal/telemetry/tracing"
	"github.com/2beens/newsroom/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=guard_mocks_test.go -package=middleware_test

type tokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type sessionChecker interface {
	AdminByID(ctx context.Context, id int) (*auth.Admin, error)
	ValidateSession(ctx context.Context, sessionID string) (bool, error)
}

// Guard authenticates admin requests: a bearer token always, the session header
// when present (or always, with requireSessionID).
type Guard struct {
	tokens           tokenVerifier
	sessions         sessionChecker
	requireSessionID bool
}

func NewGuard(tokens tokenVerifier, sessions sessionChecker, requireSessionID bool) *Guard {
	return &Guard{
		tokens:           tokens,
		sessions:         sessions,
		requireSessionID: requireSessionID,
	}
}

// RequireToken lets through requests with a valid bearer token of an existing admin.
func (g *Guard) RequireToken() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.guard.token")
			defer span.End()

			principal, ok := g.authenticate(ctx, w, r)
			if !ok {
				span.SetStatus(codes.Error, "unauthorized")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireTokenAndSession is RequireToken plus session validation. A request without
// the session header passes on the token alone unless requireSessionID is set.
func (g *Guard) RequireTokenAndSession() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.guard.tokenandsession")
			defer span.End()

			principal, ok := g.authenticate(ctx, w, r)
			if !ok {
				span.SetStatus(codes.Error, "unauthorized")
				return
			}

			sessionID := r.Header.Get(auth.SessionHeader)
			if sessionID == "" {
				if g.requireSessionID {
					pkg.WriteError(w, http.StatusUnauthorized, "Session ID is required")
					span.SetStatus(codes.Error, "missing-session-id")
					return
				}
				log.Tracef("[guard] no session header => %s", r.URL.Path)
			} else {
				valid, err := g.sessions.ValidateSession(ctx, sessionID)
				if err != nil {
					log.Errorf("[guard] validate session => %s: %s", r.URL.Path, err)
					span.RecordError(err)
				}
				if err != nil || !valid {
					pkg.WriteError(w, http.StatusUnauthorized, "Invalid or expired session")
					span.SetStatus(codes.Error, "invalid-session")
					return
				}
				principal.SessionID = sessionID
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

func (g *Guard) authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	token, ok := bearerToken(r)
	if !ok {
		log.Tracef("[guard] missing token => %s", r.URL.Path)
		pkg.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return auth.Principal{}, false
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		log.Tracef("[guard] invalid token => %s: %s", r.URL.Path, err)
		pkg.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return auth.Principal{}, false
	}

	// Verify already rejects a malformed subject
	adminID, _ := claims.AdminID()
	admin, err := g.sessions.AdminByID(ctx, adminID)
	if err != nil {
		if !errors.Is(err, auth.ErrAdminNotFound) {
			log.Errorf("[guard] get admin %d: %s", adminID, err)
		}
		pkg.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return auth.Principal{}, false
	}

	return auth.Principal{
		AdminID:  admin.ID,
		Username: admin.Username,
	}, true
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
