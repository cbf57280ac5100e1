package pkg

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// MaxJSONBodySize caps JSON request bodies, uploads go through their own limit.
const MaxJSONBodySize = 5 << 20

// DecodeJSONBody decodes the request body into dst. On failure it writes a 400 and returns false.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		WriteError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBodySize)).Decode(dst); err != nil {
		log.Tracef("decode request body [%s]: %s", r.URL.Path, err)
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// PathID reads the integer {id} route var.
func PathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// QueryInt returns the query param as int, def when it is missing or not a number.
func QueryInt(r *http.Request, name string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// QueryBool parses "true"/"false", anything else yields nil.
func QueryBool(r *http.Request, name string) *bool {
	var v bool
	switch r.URL.Query().Get(name) {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil
	}
	return &v
}
