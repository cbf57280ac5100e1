package pkg

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONBody(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	rr := httptest.NewRecorder()
	ok := DecodeJSONBody(rr, httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`)), &dst)
	require.True(t, ok)
	assert.Equal(t, "x", dst.Name)

	rr = httptest.NewRecorder()
	assert.False(t, DecodeJSONBody(rr, httptest.NewRequest("POST", "/", nil), &dst))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "request body is required")

	rr = httptest.NewRecorder()
	assert.False(t, DecodeJSONBody(rr, httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`)), &dst))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestPathID(t *testing.T) {
	for raw, want := range map[string]int{"12": 12, "0": 0, "-3": 0, "abc": 0} {
		req := mux.SetURLVars(httptest.NewRequest("GET", "/", nil), map[string]string{"id": raw})
		id, ok := PathID(req)
		assert.Equal(t, want, id, raw)
		assert.Equal(t, want > 0, ok, raw)
	}
}

func TestQueryIntAndBool(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=7&offset=x&featured=true&trending=false&other=yes", nil)
	assert.Equal(t, 7, QueryInt(req, "limit", 3))
	assert.Equal(t, 3, QueryInt(req, "offset", 3))
	assert.Equal(t, 5, QueryInt(req, "missing", 5))

	require.NotNil(t, QueryBool(req, "featured"))
	assert.True(t, *QueryBool(req, "featured"))
	require.NotNil(t, QueryBool(req, "trending"))
	assert.False(t, *QueryBool(req, "trending"))
	assert.Nil(t, QueryBool(req, "other"))
	assert.Nil(t, QueryBool(req, "missing"))
}

func TestOptionalString(t *testing.T) {
	var body struct {
		A OptionalString `json:"a"`
		B OptionalString `json:"b"`
		C OptionalString `json:"c"`
		D OptionalString `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":"  x  ","c":"   "}`), &body))

	assert.True(t, body.A.Set)
	assert.Nil(t, body.A.Value)
	assert.Nil(t, body.A.Sanitized())

	assert.True(t, body.B.Set)
	require.NotNil(t, body.B.Sanitized())
	assert.Equal(t, "x", *body.B.Sanitized())

	assert.True(t, body.C.Set)
	assert.Nil(t, body.C.Sanitized())

	assert.False(t, body.D.Set)

	assert.Error(t, json.Unmarshal([]byte(`{"a":12}`), &body))
}
