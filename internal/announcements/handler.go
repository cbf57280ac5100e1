package announcements

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=announcements_test

type announcementsRepo interface {
	Create(ctx context.Context, a *Announcement) error
	Get(ctx context.Context, id int) (*Announcement, error)
	All(ctx context.Context) ([]*Announcement, error)
	Update(ctx context.Context, id int, update *Update) (*Announcement, error)
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	repo announcementsRepo
}

func NewHandler(repo announcementsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router, guard mux.MiddlewareFunc) {
	publicRouter := router.NewRoute().Subrouter()
	publicRouter.HandleFunc("/announcements", h.handleAll).Methods("GET").Name("announcements-list")
	publicRouter.HandleFunc("/announcements/{id:[0-9]+}", h.handleGet).Methods("GET").Name("announcements-get")

	adminRouter := router.NewRoute().Subrouter()
	adminRouter.HandleFunc("/announcements", h.handleCreate).Methods("POST", "OPTIONS").Name("announcements-create")
	adminRouter.HandleFunc("/announcements/{id:[0-9]+}", h.handleUpdate).Methods("PATCH", "PUT", "OPTIONS").Name("announcements-update")
	adminRouter.HandleFunc("/announcements/{id:[0-9]+}", h.handleDelete).Methods("DELETE").Name("announcements-delete")
	adminRouter.Use(guard)
}

func (h *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.All(r.Context())
	if err != nil {
		log.Errorf("list announcements: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to get announcements")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, all)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid announcement ID")
		return
	}
	a, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, id, "get", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var a Announcement
	if !pkg.DecodeJSONBody(w, r, &a) {
		return
	}
	if err := a.validate(); err != nil {
		pkg.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.ID = 0
	a.sanitize()

	if err := h.repo.Create(r.Context(), &a); err != nil {
		log.Errorf("create announcement: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to create announcement")
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, &a)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid announcement ID")
		return
	}
	var update Update
	if !pkg.DecodeJSONBody(w, r, &update) {
		return
	}

	a, err := h.repo.Update(r.Context(), id, &update)
	if err != nil {
		writeRepoError(w, id, "update", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid announcement ID")
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
		pkg.WriteError(w, http.StatusNotFound, fmt.Sprintf("Announcement with ID %d not found", id))
		return
	}
	log.Errorf("announcement %s %d: %s", op, id, err)
	pkg.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
