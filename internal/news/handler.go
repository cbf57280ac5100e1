package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/internal/telemetry/metrics"
	"github.com/2beens/newsroom/internal/translate"
	"github.com/2beens/newsroom/pkg"
)

type newsRepo interface {
	Create(ctx context.Context, article *Article) error
	Get(ctx context.Context, id int) (*Article, error)
	IncrementViews(ctx context.Context, id int) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
	Trending(ctx context.Context, limit int) ([]*Article, error)
	Featured(ctx context.Context, limit int) ([]*Article, error)
	ByCategory(ctx context.Context, category string, limit int) ([]*Article, error)
	Update(ctx context.Context, id int, update *Update) (*Article, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	TotalViews(ctx context.Context) (int, error)
}

type localizer interface {
	Localize(ctx context.Context, fields translate.Fields, lang translate.Language) string
}

type Handler struct {
	repo           newsRepo
	localizer      localizer
	apiBase        string
	metricsManager *metrics.Manager
}

func NewHandler(
	repo newsRepo,
	localizer localizer,
	apiBase string,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		localizer:      localizer,
		apiBase:        apiBase,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the public read routes and the write routes behind guard.
func (h *Handler) SetupRoutes(router *mux.Router, guard mux.MiddlewareFunc) {
	publicRouter := router.NewRoute().Subrouter()
	publicRouter.HandleFunc("/news", h.handleList).Methods("GET").Name("news-list")
	publicRouter.HandleFunc("/news/trending", h.handleTrending).Methods("GET").Name("news-trending")
	publicRouter.HandleFunc("/news/featured", h.handleFeatured).Methods("GET").Name("news-featured")
	publicRouter.HandleFunc("/news/category/{category}", h.handleByCategory).Methods("GET").Name("news-category")
	publicRouter.HandleFunc("/news/{id:[0-9]+}", h.handleGet).Methods("GET").Name("news-get")
	publicRouter.HandleFunc("/news/{id:[0-9]+}/localized", h.handleLocalized).Methods("GET").Name("news-localized")

	adminRouter := router.NewRoute().Subrouter()
	adminRouter.HandleFunc("/news", h.handleCreate).Methods("POST", "OPTIONS").Name("news-create")
	adminRouter.HandleFunc("/news/{id:[0-9]+}", h.handleUpdate).Methods("PATCH", "PUT", "OPTIONS").Name("news-update")
	adminRouter.HandleFunc("/news/{id:[0-9]+}", h.handleDelete).Methods("DELETE").Name("news-delete")
	adminRouter.Use(guard)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Featured: pkg.QueryBool(r, "featured"),
		Trending: pkg.QueryBool(r, "trending"),
		Limit:    pkg.QueryInt(r, "limit", 0),
		Offset:   pkg.QueryInt(r, "offset", 0),
	}

	result, err := h.repo.List(r.Context(), filter)
	if err != nil {
		log.Errorf("list news: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to get news")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit := pkg.QueryInt(r, "limit", DefaultTrendingLimit)
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	articles, err := h.repo.Trending(r.Context(), limit)
	h.writeArticles(w, "trending", articles, err)
}

func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	limit := pkg.QueryInt(r, "limit", DefaultFeaturedLimit)
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	articles, err := h.repo.Featured(r.Context(), limit)
	h.writeArticles(w, "featured", articles, err)
}

func (h *Handler) handleByCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(mux.Vars(r)["category"])
	articles, err := h.repo.ByCategory(r.Context(), category, pkg.QueryInt(r, "limit", 0))
	h.writeArticles(w, "by category", articles, err)
}

func (h *Handler) writeArticles(w http.ResponseWriter, op string, articles []*Article, err error) {
	if err != nil {
		log.Errorf("news %s: %s", op, err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to get news")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, articles)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid news ID")
		return
	}

	article, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, id, "get", err)
		return
	}

	if err := h.repo.IncrementViews(r.Context(), id); err != nil {
		// the article is still served, only the counter is lost
		log.Errorf("increment views of news %d: %s", id, err)
	} else if h.metricsManager != nil {
		h.metricsManager.CounterArticleViews.Inc()
	}

	pkg.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) handleLocalized(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid news ID")
		return
	}

	lang := translate.EN
	if raw := r.URL.Query().Get("lang"); raw != "" {
		if lang, ok = translate.ParseLanguage(raw); !ok {
			pkg.WriteError(w, http.StatusBadRequest, "Unsupported language")
			return
		}
	}

	article, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, id, "get localized", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, h.localize(r.Context(), article, lang))
}

func (h *Handler) localize(ctx context.Context, a *Article, lang translate.Language) *LocalizedArticle {
	content := h.localizer.Localize(ctx, a.Contents(), lang)
	return &LocalizedArticle{
		ID:          a.ID,
		Language:    lang.Code(),
		Title:       h.localizer.Localize(ctx, a.Titles(), lang),
		Excerpt:     h.localizer.Localize(ctx, a.Excerpts(), lang),
		Content:     translate.AddImageCaptions(content, a.ImageCaptions, lang, h.apiBase),
		Category:    a.Category,
		Author:      a.Author,
		Image:       translate.NormalizeImageURL(a.Image, h.apiBase),
		Video:       a.Video,
		Images:      translate.NormalizeImageURLs(a.Images, h.apiBase),
		Videos:      a.Videos,
		Featured:    a.Featured,
		Trending:    a.Trending,
		Views:       a.Views,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var article Article
	if !pkg.DecodeJSONBody(w, r, &article) {
		return
	}

	if strings.TrimSpace(article.TitleEN) == "" &&
		strings.TrimSpace(article.TitleRW) == "" &&
		strings.TrimSpace(article.TitleFR) == "" {
		pkg.WriteError(w, http.StatusBadRequest, "A title is required in at least one language")
		return
	}

	// server owned fields
	article.ID = 0
	article.Views = 0

	if err := h.repo.Create(r.Context(), &article); err != nil {
		log.Errorf("create news: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to create news")
		return
	}

	log.Debugf("news %d [%s] created", article.ID, article.TitleEN)
	pkg.WriteJSON(w, http.StatusCreated, &article)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid news ID")
		return
	}

	var update Update
	if !pkg.DecodeJSONBody(w, r, &update) {
		return
	}

	article, err := h.repo.Update(r.Context(), id, &update)
	if err != nil {
		h.writeRepoError(w, id, "update", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pkg.PathID(r)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "Invalid news ID")
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
		pkg.WriteError(w, http.StatusNotFound, fmt.Sprintf("News with ID %d not found", id))
		return
	}
	log.Errorf("news %s %d: %s", op, id, err)
	pkg.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
