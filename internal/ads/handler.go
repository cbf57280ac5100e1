package ads

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

type adsRepo interface {
	Create(ctx context.Context, ad *Advertisement) error
	Get(ctx context.Context, id int) (*Advertisement, error)
	List(ctx context.Context, filter Filter) ([]*Advertisement, error)
	Update(ctx context.Context, id int, cols []string, vals []any) (*Advertisement, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	repo adsRepo
}

func NewHandler(repo adsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router, guard mux.MiddlewareFunc) {
	publicRouter := router.NewRoute().Subrouter()
	publicRouter.HandleFunc("/advertisements", h.handleList).Methods("GET").Name("ads-list")
	publicRouter.HandleFunc("/advertisements/placement/{placement}", h.handleByPlacement).Methods("GET").Name("ads-placement")
	publicRouter.HandleFunc("/advertisements/{id:[0-9]+}", h.handleGet).Methods("GET").Name("ads-get")

	adminRouter := router.NewRoute().Subrouter()
	adminRouter.HandleFunc("/advertisements", h.handleCreate).Methods("POST", "OPTIONS").Name("ads-create")
	adminRouter.HandleFunc("/advertisements/{id:[0-9]+}", h.handleUpdate).Methods("PATCH", "PUT", "OPTIONS").Name("ads-update")
	adminRouter.HandleFunc("/advertisements/{id:[0-9]+}", h.handleDelete).Methods("DELETE").Name("ads-delete")
	adminRouter.Use(guard)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := Filter{IsPublished: pkg.QueryBool(r, "isPublished")}
	if placement := strings.TrimSpace(r.URL.Query().Get("placement")); placement != "" {
		filter.Placement = NormalizePlacement(placement)
	}
	h.writeList(w, r, filter)
}

// handleByPlacement serves the published advertisements of one slot.
func (h *Handler) handleByPlacement(w http.ResponseWriter, r *http.Request) {
	published := true
	h.writeList(w, r, Filter{
		Placement:   NormalizePlacement(mux.Vars(r)["placement"]),
		IsPublished: &published,
	})
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, filter Filter) {
	ads, err := h.repo.List(r.Context(), filter)
	if err != nil {
		log.Errorf("list advertisements: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to get advertisements")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, ads)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid advertisement ID")
		return
	}
	ad, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, id, "get", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, ad)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !pkg.DecodeJSONBody(w, r, &req) {
		return
	}

	ad, err := req.toAdvertisement()
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Create(r.Context(), ad); err != nil {
		log.Errorf("create advertisement: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to create advertisement")
		return
	}

	log.Debugf("advertisement %d [%s] created for %s", ad.ID, ad.Title, ad.Placement)
	pkg.WriteJSON(w, http.StatusCreated, ad)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid advertisement ID")
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

	ad, err := h.repo.Update(r.Context(), id, cols, vals)
	if err != nil {
		h.writeRepoError(w, id, "update", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, ad)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid advertisement ID")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, id, "delete", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

func (h *Handler) writeRepoError(w http.ResponseWriter, id int, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		pkg.WriteError(w, http.StatusNotFound, fmt.Sprintf("Advertisement with ID %d not found", id))
		return
	}
	log.Errorf("advertisement %s %d: %s", op, id, err)
	pkg.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
