//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2beens/newsroom/internal/auth"
)

type credentials struct {
	token     string
	sessionID string
}

func doLogin(ctx context.Context, t *testing.T) credentials {
	t.Helper()
	resp := doRequest(ctx, t, "POST", "/auth/login", map[string]string{
		"username": testUsername,
		"password": testPassword,
	}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp auth.LoginResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	require.NotEmpty(t, loginResp.AccessToken)
	require.NotEmpty(t, loginResp.SessionID)

	return credentials{
		token:     loginResp.AccessToken,
		sessionID: loginResp.SessionID,
	}
}

// doRequest sends body as JSON (when not nil) and authenticates with creds (when not nil).
func doRequest(ctx context.Context, t *testing.T, method, path string, body any, creds *credentials) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		req.Header.Set("Authorization", "Bearer "+creds.token)
		req.Header.Set(auth.SessionHeader, creds.sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
