package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/pkg"
)

type mediaRepo interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id int) (*Item, error)
	List(ctx context.Context, itemType string) ([]*Item, error)
	Update(ctx context.Context, id int, cols []string, vals []any) (*Item, error)
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	repo mediaRepo
}

func NewHandler(repo mediaRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router, guard mux.MiddlewareFunc) {
	publicRouter := router.NewRoute().Subrouter()
	publicRouter.HandleFunc("/media", h.handleList).Methods("GET").Name("media-list")
	publicRouter.HandleFunc("/media/{id:[0-9]+}", h.handleGet).Methods("GET").Name("media-get")

	adminRouter := router.NewRoute().Subrouter()
	adminRouter.HandleFunc("/media", h.handleCreate).Methods("POST", "OPTIONS").Name("media-create")
	adminRouter.HandleFunc("/media/{id:[0-9]+}", h.handleUpdate).Methods("PATCH", "PUT", "OPTIONS").Name("media-update")
	adminRouter.HandleFunc("/media/{id:[0-9]+}", h.handleDelete).Methods("DELETE").Name("media-delete")
	adminRouter.Use(guard)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var itemType string
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		t, ok := parseType(raw)
		if !ok {
			pkg.WriteError(w, http.StatusBadRequest, ErrBadType.Error())
			return
		}
		itemType = t
	}

	items, err := h.repo.List(r.Context(), itemType)
	if err != nil {
		log.Errorf("list media: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to get media")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid media ID")
		return
	}
	item, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, id, "get", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var item Item
	if !pkg.DecodeJSONBody(w, r, &item) {
		return
	}
	if err := item.prepare(); err != nil {
		pkg.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	item.ID = 0

	if err := h.repo.Create(r.Context(), &item); err != nil {
		log.Errorf("create media: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to create media")
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, &item)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid media ID")
		return
	}
	var update Update
	if !pkg.DecodeJSONBody(w, r, &update) {
		return
	}
	cols, vals, err := update.set()
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.repo.Update(r.Context(), id, cols, vals)
	if err != nil {
		writeRepoError(w, id, "update", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid media ID")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, id, "delete", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

func writeRepoError(w http.ResponseWriter, id int, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		pkg.WriteError(w, http.StatusNotFound, fmt.Sprintf("Media with ID %d not found", id))
		return
	}
	log.Errorf("media %s %d: %s", op, id, err)
	pkg.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
