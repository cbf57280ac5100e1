//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/newsroom/internal/ads"
	"github.com/2beens/newsroom/internal/news"
	"github.com/2beens/newsroom/internal/stats"
	"github.com/2beens/newsroom/internal/upload"
)

func (s *IntegrationTestSuite) TestNewsLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	creds := doLogin(ctx, t)

	resp := doRequest(ctx, t, "POST", "/news", map[string]any{"titleEN": "Anonymous"}, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(ctx, t, "POST", "/news", map[string]any{
		"titleEN":   "Rains flood the valley",
		"excerptEN": "Heavy rains overnight",
		"contentEN": `<p>Water everywhere.</p><img src="/uploads/flood.jpg">`,
		"category":  "national",
		"author":    "Desk",
		"image":     "flood.jpg",
		"imageCaptions": map[string]map[string]string{
			"/uploads/flood.jpg": {"EN": "The valley at dawn"},
		},
		"featured": true,
	}, &creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeResponse[news.Article](t, resp)
	require.Positive(t, created.ID)
	path := fmt.Sprintf("/news/%d", created.ID)

	resp = doRequest(ctx, t, "GET", path, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(ctx, t, "GET", path, nil, nil)
	got := decodeResponse[news.Article](t, resp)
	assert.Equal(t, 1, got.Views)

	resp = doRequest(ctx, t, "GET", path+"/localized?lang=en", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	localized := decodeResponse[news.LocalizedArticle](t, resp)
	assert.Equal(t, "Rains flood the valley", localized.Title)
	assert.Contains(t, localized.Content, `<figcaption class="image-caption">The valley at dawn</figcaption>`)
	assert.Equal(t, serverEndpoint+"/uploads/flood.jpg", localized.Image)

	resp = doRequest(ctx, t, "GET", "/news?category=national&limit=10", nil, nil)
	list := decodeResponse[news.ListResult](t, resp)
	assert.GreaterOrEqual(t, list.Total, 1)

	resp = doRequest(ctx, t, "GET", "/news/featured", nil, nil)
	featured := decodeResponse[[]news.Article](t, resp)
	require.NotEmpty(t, featured)
	assert.Equal(t, created.ID, featured[0].ID)

	resp = doRequest(ctx, t, "PATCH", path, map[string]any{"trending": true, "author": "Night desk"}, &creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeResponse[news.Article](t, resp)
	assert.True(t, updated.Trending)
	assert.Equal(t, "Night desk", updated.Author)
	assert.Equal(t, "Rains flood the valley", updated.TitleEN)

	resp = doRequest(ctx, t, "DELETE", path, nil, &creds)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, "GET", path, nil, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAdvertisements() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	creds := doLogin(ctx, t)

	resp := doRequest(ctx, t, "POST", "/advertisements", map[string]any{
		"title":     "Bank promo",
		"placement": "sidebar",
		"linkUrl":   "ftp://bank.example",
	}, &creds)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(ctx, t, "POST", "/advertisements", map[string]any{
		"title":     "Bank promo",
		"placement": "sidebar",
		"linkUrl":   "https://bank.example/promo",
		"mediaUrl":  "   ",
	}, &creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ad := decodeResponse[ads.Advertisement](t, resp)
	assert.Nil(t, ad.MediaURL)
	assert.True(t, ad.IsPublished)

	resp = doRequest(ctx, t, "GET", "/advertisements/placement/sidebar", nil, nil)
	sidebar := decodeResponse[[]ads.Advertisement](t, resp)
	require.NotEmpty(t, sidebar)
	assert.Equal(t, ad.ID, sidebar[0].ID)

	resp = doRequest(ctx, t, "DELETE", fmt.Sprintf("/advertisements/%d", ad.ID), nil, &creds)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestStats() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	creds := doLogin(ctx, t)

	resp := doRequest(ctx, t, "GET", "/stats", nil, &creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decodeResponse[stats.Stats](t, resp)
	assert.GreaterOrEqual(t, st.Admins, 1)
}

func (s *IntegrationTestSuite) TestContactWithoutMailTransport() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := doRequest(ctx, t, "POST", "/contact", map[string]string{
		"name":    "Reader",
		"email":   "reader@example.com",
		"message": "Great coverage",
	}, nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Email service is not configured on the server.", decodeResponse[map[string]any](t, resp)["message"])
}

func (s *IntegrationTestSuite) TestUploadAndServe() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	creds := doLogin(ctx, t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "pixel.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+"/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+creds.token)
	req.Header.Set("X-Session-Id", creds.sessionID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	uploaded := decodeResponse[upload.Response](t, resp)
	assert.Equal(t, "image/png", uploaded.MimeType)

	resp, err = http.Get(uploaded.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
