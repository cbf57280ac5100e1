package sessionmonitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/newsroom/internal/auth"
	"github.com/2beens/newsroom/pkg"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	sessions := map[string]bool{}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		sessions["s-1"] = true
		pkg.WriteJSON(w, http.StatusOK, auth.LoginResult{
			AccessToken: "token-1",
			SessionID:   "s-1",
			Admin:       auth.AdminInfo{ID: 1, Username: "admin"},
		})
	})
	mux.HandleFunc("/auth/validate-session", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			pkg.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		pkg.WriteJSON(w, http.StatusOK, map[string]bool{"valid": sessions[r.Header.Get(auth.SessionHeader)]})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		delete(sessions, r.Header.Get(auth.SessionHeader))
		pkg.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	})
	mux.HandleFunc("/broken/auth/validate-session", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_LoginValidateLogout(t *testing.T) {
	server := newAuthServer(t)
	client := NewClient(server.URL+"/", server.Client())
	ctx := context.Background()

	valid, err := client.ValidateSession(ctx)
	require.NoError(t, err)
	assert.False(t, valid)

	result, err := client.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "s-1", result.SessionID)
	assert.Equal(t, "s-1", client.SessionID())

	valid, err = client.ValidateSession(ctx)
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, client.Logout(ctx))
	assert.Empty(t, client.SessionID())

	// the old credentials are no longer accepted
	client.SetCredentials("token-1", "s-1")
	valid, err = client.ValidateSession(ctx)
	require.NoError(t, err)
	assert.False(t, valid)

	client.SetCredentials("other-token", "s-1")
	valid, err = client.ValidateSession(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	server := newAuthServer(t)
	client := NewClient(server.URL+"/broken", server.Client())
	client.SetCredentials("token-1", "s-1")

	_, err := client.ValidateSession(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
