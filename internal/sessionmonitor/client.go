package sessionmonitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/newsroom/internal/auth"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Client talks to the auth endpoints on behalf of a logged in admin.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	sessionID  string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetCredentials sets the token and session id sent with every request.
func (c *Client) SetCredentials(token, sessionID string) {
	c.token = token
	c.sessionID = sessionID
}

func (c *Client) SessionID() string {
	return c.sessionID
}

// Login authenticates and keeps the returned credentials.
func (c *Client) Login(ctx context.Context, username, password string) (*auth.LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, "/auth/login", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	result := &auth.LoginResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	c.SetCredentials(result.AccessToken, result.SessionID)
	return result, nil
}

// ValidateSession reports whether the stored session is still usable. A rejected
// token or session counts as invalid rather than as an error.
func (c *Client) ValidateSession(ctx context.Context) (bool, error) {
	if c.sessionID == "" {
		return false, nil
	}

	resp, err := c.do(ctx, "/auth/validate-session", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return false, nil
	default:
		return false, fmt.Errorf("validate session: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var result struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode validate session response: %w", err)
	}
	return result.Valid, nil
}

// Logout invalidates the session server side and forgets the credentials either way.
func (c *Client) Logout(ctx context.Context) error {
	defer c.SetCredentials("", "")

	if c.token == "" || c.sessionID == "" {
		return nil
	}

	resp, err := c.do(ctx, "/auth/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.sessionID != "" {
		req.Header.Set(auth.SessionHeader, c.sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	return resp, nil
}
