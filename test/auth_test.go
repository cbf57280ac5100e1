//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/newsroom/internal/auth"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		username           string
		password           string
		expectedStatusCode int
	}{
		"good creds":       {testUsername, testPassword, http.StatusOK},
		"wrong password":   {testUsername, "nope", http.StatusUnauthorized},
		"unknown user":     {"ghost", testPassword, http.StatusUnauthorized},
		"missing password": {testUsername, "", http.StatusBadRequest},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(ctx, t, "POST", "/auth/login", map[string]string{
				"username": tc.username,
				"password": tc.password,
			}, nil)
			defer resp.Body.Close()
			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)
		})
	}
}

func (s *IntegrationTestSuite) TestSessionLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := doLogin(ctx, t)
	second := doLogin(ctx, t)

	resp := doRequest(ctx, t, "GET", "/auth/profile", nil, &first)
	profile := decodeResponse[auth.AdminInfo](t, resp)
	assert.Equal(t, testUsername, profile.Username)

	resp = doRequest(ctx, t, "GET", "/auth/sessions", nil, &first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessions := decodeResponse[[]map[string]any](t, resp)
	assert.GreaterOrEqual(t, len(sessions), 2)

	resp = doRequest(ctx, t, "POST", "/auth/validate-session", nil, &second)
	valid := decodeResponse[map[string]bool](t, resp)
	assert.True(t, valid["valid"])

	resp = doRequest(ctx, t, "POST", "/auth/logout", nil, &second)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, "POST", "/auth/validate-session", nil, &second)
	valid = decodeResponse[map[string]bool](t, resp)
	assert.False(t, valid["valid"])

	// the session header is mandatory in this setup
	noSession := credentials{token: first.token}
	resp = doRequest(ctx, t, "GET", "/auth/profile", nil, &noSession)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(ctx, t, "GET", "/auth/profile", nil, &first)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestForgotPassword_GenericAnswer() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	known := doRequest(ctx, t, "POST", "/auth/forgot-password", map[string]string{"usernameOrEmail": testEmail}, nil)
	unknown := doRequest(ctx, t, "POST", "/auth/forgot-password", map[string]string{"usernameOrEmail": "ghost@newsroom.test"}, nil)
	require.Equal(t, http.StatusOK, known.StatusCode)
	require.Equal(t, http.StatusOK, unknown.StatusCode)

	assert.Equal(t,
		decodeResponse[map[string]string](t, known)["message"],
		decodeResponse[map[string]string](t, unknown)["message"],
	)
}
