package announcements_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/2beens/newsroom/internal/announcements"
	testingpkg "github.com/2beens/newsroom/pkg/testing"
)

func newTestRouter(repo *MockannouncementsRepo) *mux.Router {
	r := mux.NewRouter()
	announcements.NewHandler(repo).SetupRoutes(r, testingpkg.HeaderGuard)
	return r
}

func serve(router *mux.Router, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if authorized {
		req.Header.Set("Authorization", "Bearer token")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_All(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockannouncementsRepo(ctrl)
	router := newTestRouter(repo)

	now := time.Now()
	repo.EXPECT().All(gomock.Any()).Return([]*announcements.Announcement{
		{ID: 2, TitleEN: "second", CreatedAt: now},
		{ID: 1, TitleEN: "first", CreatedAt: now.Add(-time.Hour)},
	}, nil)

	rr := serve(router, "GET", "/announcements", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	got := testingpkg.DecodeBody[[]*announcements.Announcement](t, rr)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].TitleEN)
	assert.Nil(t, got[0].Image)

	repo.EXPECT().All(gomock.Any()).Return(nil, errors.New("db down"))
	rr = serve(router, "GET", "/announcements", "", false)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockannouncementsRepo(ctrl)
	router := newTestRouter(repo)

	repo.EXPECT().Get(gomock.Any(), 5).Return(&announcements.Announcement{ID: 5, TitleRW: "Itangazo"}, nil)
	rr := serve(router, "GET", "/announcements/5", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Itangazo", testingpkg.DecodeBody[announcements.Announcement](t, rr).TitleRW)

	repo.EXPECT().Get(gomock.Any(), 6).Return(nil, announcements.ErrNotFound)
	rr = serve(router, "GET", "/announcements/6", "", false)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Announcement with ID 6 not found", testingpkg.DecodeBody[map[string]any](t, rr)["message"])
}

func TestHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockannouncementsRepo(ctrl)
	router := newTestRouter(repo)

	rr := serve(router, "POST", "/announcements", `{"titleEN":"x"}`, false)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(router, "POST", "/announcements", `{"descriptionEN":"no title"}`, true)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *announcements.Announcement) error {
		assert.Equal(t, "Exam dates", a.TitleEN)
		assert.Nil(t, a.Video)
		require.NotNil(t, a.File)
		assert.Equal(t, "/uploads/dates.pdf", *a.File)
		a.ID = 11
		return nil
	})
	rr = serve(router, "POST", "/announcements",
		`{"id":99,"titleEN":"Exam dates","video":"  ","file":"/uploads/dates.pdf","fileName":"dates.pdf","fileType":"application/pdf"}`,
		true,
	)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := testingpkg.DecodeBody[announcements.Announcement](t, rr)
	assert.Equal(t, 11, created.ID)
	require.NotNil(t, created.FileName)
	assert.Equal(t, "dates.pdf", *created.FileName)
}

func TestHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockannouncementsRepo(ctrl)
	router := newTestRouter(repo)

	repo.EXPECT().Update(gomock.Any(), 3, gomock.Any()).DoAndReturn(
		func(_ context.Context, id int, u *announcements.Update) (*announcements.Announcement, error) {
			require.NotNil(t, u.TitleFR)
			assert.Equal(t, "Annonce", *u.TitleFR)
			assert.Nil(t, u.TitleEN)
			assert.True(t, u.Image.Set)
			assert.Nil(t, u.Image.Value)
			assert.False(t, u.File.Set)
			return &announcements.Announcement{ID: id, TitleFR: "Annonce"}, nil
		},
	)
	rr := serve(router, "PATCH", "/announcements/3", `{"titleFR":"Annonce","image":null}`, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Annonce", testingpkg.DecodeBody[announcements.Announcement](t, rr).TitleFR)

	repo.EXPECT().Update(gomock.Any(), 4, gomock.Any()).Return(nil, announcements.ErrNotFound)
	rr = serve(router, "PUT", "/announcements/4", `{"titleFR":"x"}`, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(router, "PATCH", "/announcements/4", `[`, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockannouncementsRepo(ctrl)
	router := newTestRouter(repo)

	rr := serve(router, "DELETE", "/announcements/8", "", false)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	repo.EXPECT().Delete(gomock.Any(), 8).Return(nil)
	rr = serve(router, "DELETE", "/announcements/8", "", true)
	require.Equal(t, http.StatusOK, rr.Code)

	repo.EXPECT().Delete(gomock.Any(), 8).Return(announcements.ErrNotFound)
	rr = serve(router, "DELETE", "/announcements/8", "", true)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	repo.EXPECT().Delete(gomock.Any(), 9).Return(errors.New("boom"))
	rr = serve(router, "DELETE", "/announcements/9", "", true)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal server error", testingpkg.DecodeBody[map[string]any](t, rr)["message"])
}
