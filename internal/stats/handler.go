package stats

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/2beens/newsroom/pkg"
)

// CountFunc returns the size of one collection.
type CountFunc func(ctx context.Context) (int, error)

type Sources struct {
	Articles       CountFunc
	TotalViews     CountFunc
	Advertisements CountFunc
	MediaItems     CountFunc
	Announcements  CountFunc
	Admins         CountFunc
}

type Stats struct {
	Articles       int `json:"articles"`
	TotalViews     int `json:"totalViews"`
	Advertisements int `json:"advertisements"`
	MediaItems     int `json:"mediaItems"`
	Announcements  int `json:"announcements"`
	Admins         int `json:"admins"`
}

type Handler struct {
	sources Sources
}

func NewHandler(sources Sources) *Handler {
	return &Handler{
		sources: sources,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router, guard mux.MiddlewareFunc) {
	statsRouter := router.NewRoute().Subrouter()
	statsRouter.HandleFunc("/stats", h.handleGet).Methods("GET", "OPTIONS").Name("stats")
	statsRouter.Use(guard)
}

// Collect runs all counts concurrently and fails on the first error.
func (h *Handler) Collect(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, gCtx := errgroup.WithContext(ctx)
	for _, c := range []struct {
		count CountFunc
		dst   *int
	}{
		{h.sources.Articles, &stats.Articles},
		{h.sources.TotalViews, &stats.TotalViews},
		{h.sources.Advertisements, &stats.Advertisements},
		{h.sources.MediaItems, &stats.MediaItems},
		{h.sources.Announcements, &stats.Announcements},
		{h.sources.Admins, &stats.Admins},
	} {
		if c.count == nil {
			continue
		}
		g.Go(func() error {
			n, err := c.count(gCtx)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Collect(r.Context())
	if err != nil {
		log.Errorf("stats: collect: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, stats)
}
