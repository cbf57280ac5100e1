package misc

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/newsroom/internal/telemetry/tracing"
	"github.com/2beens/newsroom/pkg"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is anything the health endpoint can check, e.g. the db pool or redis.
type Pinger func(ctx context.Context) error

type Handler struct {
	versionInfo string
	checks      map[string]Pinger
}

func NewHandler(versionInfo string, checks map[string]Pinger) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		checks:      checks,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := healthResponse{
		Status: "ok",
		Checks: make(map[string]string, len(handler.checks)),
	}
	for name, ping := range handler.checks {
		if err := ping(ctx); err != nil {
			log.Errorf("health check [%s]: %s", name, err)
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "up"
	}
	span.SetAttributes(attribute.String("health.status", resp.Status))

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	pkg.WriteJSON(w, status, resp)
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	pkg.WriteTextResponseOK(w, pkg.ReadUserIP(r))
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	if handler.versionInfo == "" {
		pkg.WriteTextResponseOK(w, "unknown")
		return
	}
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
