package misc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	testingpkg "github.com/2beens/newsroom/pkg/testing"
)

// use TestMain(m *testing.M) { ... } for
// global set-up/tear-down for all the tests in a package
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ok(context.Context) error { return nil }

func TestMiscHandler_Routes(t *testing.T) {
	r := mux.NewRouter()
	NewHandler("abc123", nil).SetupRoutes(r)

	for _, name := range []string{"root", "health", "myip", "version"} {
		assert.NotNil(t, r.Get(name), name)
	}
}

func TestMiscHandler_Root(t *testing.T) {
	r := mux.NewRouter()
	NewHandler("", nil).SetupRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())
}

func TestMiscHandler_Version(t *testing.T) {
	r := mux.NewRouter()
	NewHandler("abc123", nil).SetupRoutes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))
	assert.Equal(t, "abc123", rr.Body.String())

	r = mux.NewRouter()
	NewHandler("", nil).SetupRoutes(r)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))
	assert.Equal(t, "unknown", rr.Body.String())
}

func TestMiscHandler_MyIp(t *testing.T) {
	r := mux.NewRouter()
	NewHandler("", nil).SetupRoutes(r)

	req := httptest.NewRequest("GET", "/myip", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	req.Header.Set("X-Real-Ip", "198.51.100.7")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "203.0.113.9", rr.Body.String())
}

func TestMiscHandler_Health(t *testing.T) {
	r := mux.NewRouter()
	NewHandler("", map[string]Pinger{"postgres": ok, "redis": ok}).SetupRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	resp := testingpkg.DecodeBody[healthResponse](t, rr)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]string{"postgres": "up", "redis": "up"}, resp.Checks)

	r = mux.NewRouter()
	NewHandler("", map[string]Pinger{
		"postgres": ok,
		"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	}).SetupRoutes(r)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	resp = testingpkg.DecodeBody[healthResponse](t, rr)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Checks["redis"])
}
