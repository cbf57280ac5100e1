package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/2beens/newsroom/internal/ads"
	"github.com/2beens/newsroom/internal/announcements"
	"github.com/2beens/newsroom/internal/auth"
	"github.com/2beens/newsroom/internal/config"
	"github.com/2beens/newsroom/internal/contact"
	"github.com/2beens/newsroom/internal/db"
	"github.com/2beens/newsroom/internal/mail"
	"github.com/2beens/newsroom/internal/media"
	"github.com/2beens/newsroom/internal/middleware"
	"github.com/2beens/newsroom/internal/misc"
	"github.com/2beens/newsroom/internal/news"
	"github.com/2beens/newsroom/internal/stats"
	"github.com/2beens/newsroom/internal/telemetry/metrics"
	"github.com/2beens/newsroom/internal/telemetry/tracing"
	"github.com/2beens/newsroom/internal/translate"
	"github.com/2beens/newsroom/internal/upload"
	"github.com/2beens/newsroom/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	tokens      *auth.TokenIssuer
	authService *auth.Service
	// nil when smtp is not configured
	mailer      mail.Sender
	uploadStore *upload.DiskStore
	translator  *translate.Translator

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	JWTSecret               string
	OTPSecret               string
	SMTP                    mail.SMTPConfig
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (_ *Server, err error) {
	cfg := params.Config

	// everything that can fail without opening a connection goes first
	tokens, err := auth.NewTokenIssuer(params.JWTSecret, cfg.JWTTTL())
	if err != nil {
		return nil, fmt.Errorf("new token issuer: %w", err)
	}

	var mailer mail.Sender
	if params.SMTP.Enabled() {
		smtpSender, err := mail.NewSMTPSender(params.SMTP)
		if err != nil {
			return nil, fmt.Errorf("new smtp sender: %w", err)
		}
		mailer = smtpSender
	} else {
		log.Warnln("smtp not configured: reset codes are logged and the contact form is disabled")
	}

	uploadStore, err := upload.NewDiskStore(cfg.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("new upload store: %w", err)
	}

	var opened closers
	defer func() {
		if err != nil {
			opened.closeAll()
		}
	}()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}
	opened.add("db pool", func() error {
		dbPool.Close()
		return nil
	})

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}
	if err := db.ApplySchema(ctx, dbPool); err != nil {
		return nil, err
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "newsroom", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	opened.add("redis", rdb.Close)

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "newsroom-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}

	otpSecret := params.OTPSecret
	if otpSecret == "" {
		otpSecret = params.JWTSecret
	}
	authService := auth.NewService(auth.ServiceParams{
		Repo:           auth.NewRepo(dbPool),
		Tokens:         tokens,
		Mailer:         mailer,
		MetricsManager: metricsManager,
		OTPSecret:      otpSecret,
		SessionTTL:     cfg.SessionTTL(),
		OTPTTL:         cfg.OTPTTL(),
	})

	translateCache := translate.NewCache(
		cfg.TranslateCacheSizeMB,
		cfg.TranslateCacheTTL(),
		rdb,
		metricsManager,
	)

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),

		tokens:      tokens,
		authService: authService,
		mailer:      mailer,
		uploadStore: uploadStore,
		translator:  translate.NewTranslator(cfg.TranslateBaseURL, tracedHttpClient, translateCache),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// closers undoes a partially built server, last opened first.
type closers []namedCloser

type namedCloser struct {
	name  string
	close func() error
}

func (c *closers) add(name string, closeFunc func() error) {
	*c = append(*c, namedCloser{name: name, close: closeFunc})
}

func (c closers) closeAll() {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].close(); err != nil {
			log.Errorf("close %s: %s", c[i].name, err)
		}
	}
}

func (s *Server) rateLimit(routerName string, allowedPerMin int) mux.MiddlewareFunc {
	return middleware.RateLimit(s.rateLimiter, s.metricsManager, routerName, allowedPerMin)
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("newsroom-router"))
	r.Use(middleware.ClientIP(s.config.BehindProxy))

	guard := middleware.NewGuard(s.tokens, s.authService, s.config.RequireSessionID)
	adminOnly := guard.RequireTokenAndSession()

	checks := map[string]misc.Pinger{}
	if s.dbPool != nil {
		checks["postgres"] = s.dbPool.Ping
	}
	if s.redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return s.redisClient.Ping(ctx).Err() }
	}
	misc.NewHandler(s.versionInfo, checks).SetupRoutes(r)

	auth.NewHandler(s.authService).SetupRoutes(r, auth.RouteMiddlewares{
		RequireToken:           guard.RequireToken(),
		RequireTokenAndSession: adminOnly,
		LoginRateLimit:         s.rateLimit("login", s.config.LoginRateLimitAllowedPerMin),
		PasswordResetRateLimit: s.rateLimit("password-reset", s.config.PasswordResetRateLimitPerMin),
	})

	newsRepo := news.NewRepo(s.dbPool)
	adsRepo := ads.NewRepo(s.dbPool)
	announcementsRepo := announcements.NewRepo(s.dbPool)
	mediaRepo := media.NewRepo(s.dbPool)
	authRepo := auth.NewRepo(s.dbPool)

	news.NewHandler(newsRepo, s.translator, s.config.APIBaseURL, s.metricsManager).SetupRoutes(r, adminOnly)
	ads.NewHandler(adsRepo).SetupRoutes(r, adminOnly)
	announcements.NewHandler(announcementsRepo).SetupRoutes(r, adminOnly)
	media.NewHandler(mediaRepo).SetupRoutes(r, adminOnly)
	upload.NewHandler(s.uploadStore, s.config.APIBaseURL).SetupRoutes(r, adminOnly)

	contact.NewHandler(contact.NewRepo(s.dbPool), s.mailer, s.config.ContactInbox).SetupRoutes(r, contact.RouteMiddlewares{
		Guard:     adminOnly,
		RateLimit: s.rateLimit("contact", s.config.ContactRateLimitAllowedPerMin),
	})

	stats.NewHandler(stats.Sources{
		Articles:       newsRepo.Count,
		TotalViews:     newsRepo.TotalViews,
		Advertisements: adsRepo.Count,
		MediaItems:     mediaRepo.Count,
		Announcements:  announcementsRepo.Count,
		Admins:         authRepo.CountAdmins,
	}).SetupRoutes(r, adminOnly)

	translate.NewHandler(s.translator).SetupRoutes(
		r,
		s.rateLimit("translate", s.config.TranslateRateLimitAllowedPerMin),
	)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

// handler puts CORS in front of the router, so preflights are answered even for
// paths whose routes do not list OPTIONS.
func (s *Server) handler() http.Handler {
	return middleware.Cors(s.config.AllowedOrigins)(s.routerSetup())
}

// Serve starts the api and metrics servers and blocks until ctx is cancelled or one
// of them fails. The servers are shut down by GracefulShutdown.
func (s *Server) Serve(ctx context.Context, host string, port int) error {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.handler(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("main service, listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		if err := s.metricsHttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics service, listen and serve: %w", err)
		}
		return nil
	})

	s.metricsManager.GaugeLifeSignal.Set(1)

	<-gCtx.Done()
	s.metricsManager.GaugeLifeSignal.Set(0)
	s.shutdownHTTP()

	return g.Wait()
}

func (s *Server) shutdownHTTP() {
	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}
}

// GracefulShutdown releases the backing resources. Call it after Serve returned.
func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
