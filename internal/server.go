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
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/docstore"
	"github.com/2beens/gymprogress/internal/docstore/memstore"
	"github.com/2beens/gymprogress/internal/docstore/pgstore"
	"github.com/2beens/gymprogress/internal/docstore/redisnotify"
	"github.com/2beens/gymprogress/internal/docstore/sqlitestore"
	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/catalog"
	"github.com/2beens/gymprogress/internal/gym/coverage"
	gymmcp "github.com/2beens/gymprogress/internal/gym/mcp"
	"github.com/2beens/gymprogress/internal/gym/plans"
	"github.com/2beens/gymprogress/internal/gym/sessions"
	"github.com/2beens/gymprogress/internal/gym/templates"
	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	proxySecret       string // shared with the proxy that sets X-Owner-ID
	versionInfo       string

	config     *config.Config
	docs       docstore.Store
	closeStore func() error
	dbPool     *pgxpool.Pool
	catalog    *catalog.Catalog
	clock      gym.Clock

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	ProxySecret             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		if params.HoneycombTracingEnabled {
			rdb.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	} else {
		log.Debugln("redis not configured, change notifications stay in process")
	}

	// a typed nil would slip past the stores' nil check
	var notifier docstore.Notifier
	if rdb != nil {
		notifier = redisnotify.New(rdb)
	}

	s := &Server{
		config:      cfg,
		proxySecret: params.ProxySecret,
		versionInfo: params.VersionInfo,
		redisClient: rdb,
		clock:       gym.SystemClock{},
		closeStore:  func() error { return nil },
	}

	var extraCollectors []prometheus.Collector
	switch cfg.StoreBackend {
	case config.StoreMemory:
		var opts []memstore.Option
		if notifier != nil {
			opts = append(opts, memstore.WithNotifier(notifier))
		}
		s.docs = memstore.New(opts...)
	case config.StoreSQLite:
		store, err := sqlitestore.Open(cfg.SQLitePath, notifier)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		s.docs = store
		s.closeStore = store.Close
	case config.StorePostgres:
		dbParams := db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		}
		if err := db.RunMigrations(dbParams, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrate db: %w", err)
		}
		dbPool, err := db.NewDBPool(ctx, dbParams)
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		s.dbPool = dbPool
		s.docs = pgstore.New(dbPool, notifier)
		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
	log.Infof("document store: %s", cfg.StoreBackend)

	s.promRegistry = metrics.NewRegistry(extraCollectors...)
	s.metricsManager = metrics.NewManager("gymprogress", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown = func() {}
	if params.HoneycombTracingEnabled {
		// use honeycomb distro to setup OpenTelemetry SDK
		otelShutdown, err := tracing.HoneycombSetup("gymprogress")
		if err != nil {
			return nil, err
		}
		s.otelShutdown = otelShutdown
	}

	exercises, err := catalog.LoadExercises(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load exercise catalog: %w", err)
	}
	s.catalog = catalog.New(exercises, cfg.CatalogCacheMB)
	log.Infof("exercise catalog loaded: %d exercises", s.catalog.Len())

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gym-router"))

	miscHandler := NewMiscHandler(s.versionInfo)
	r.HandleFunc("/", miscHandler.HandleRoot).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", miscHandler.HandleVersion).Methods("GET", "OPTIONS").Name("version")

	templateStore := templates.NewStore(s.docs, s.clock, gym.NewID)
	templatesHandler := templates.NewHandler(templateStore, gym.NewID)
	r.HandleFunc("/gym/templates", templatesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-template")
	r.HandleFunc("/gym/templates", templatesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-templates")
	r.HandleFunc("/gym/templates/{id}", templatesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-template")
	r.HandleFunc("/gym/templates/{id}", templatesHandler.HandleEdit).Methods("PATCH", "OPTIONS").Name("edit-template")
	r.HandleFunc("/gym/templates/{id}", templatesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-template")

	sessionsRepo := sessions.NewRepo(s.docs)
	sessionsService := sessions.NewService(
		sessionsRepo,
		templateStore,
		sessions.NewFactory(s.clock, gym.NewID),
		s.clock,
		s.metricsManager,
	)
	sessionsHandler := sessions.NewHandler(sessionsService, s.clock)
	r.HandleFunc("/gym/sessions", sessionsHandler.HandleStart).Methods("POST", "OPTIONS").Name("start-session")
	r.HandleFunc("/gym/sessions", sessionsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/gym/sessions/watch", sessionsHandler.HandleWatch).Methods("GET", "OPTIONS").Name("watch-sessions")
	r.HandleFunc("/gym/sessions/{id}", sessionsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/gym/sessions/{id}/previous", sessionsHandler.HandlePrevious).Methods("GET", "OPTIONS").Name("previous-session")
	r.HandleFunc("/gym/templates/{id}/sessions/latest", sessionsHandler.HandleLatestForTemplate).Methods("GET", "OPTIONS").Name("latest-template-session")
	r.HandleFunc("/gym/sessions/{id}", sessionsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-session")
	r.HandleFunc("/gym/sessions/{id}/toggle", sessionsHandler.HandleToggleSet).Methods("POST", "OPTIONS").Name("toggle-set")
	r.HandleFunc("/gym/sessions/{id}/edit", sessionsHandler.HandleEditSet).Methods("POST", "OPTIONS").Name("edit-set")
	r.HandleFunc("/gym/sessions/{id}/finish", sessionsHandler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-session")

	plansRepo := plans.NewRepo(s.docs, s.clock)
	plansHandler := plans.NewHandler(plans.NewService(plansRepo, s.clock, gym.NewID, s.metricsManager))
	r.HandleFunc("/gym/plans", plansHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-plan")
	r.HandleFunc("/gym/plans", plansHandler.HandleList).Methods("GET", "OPTIONS").Name("list-plans")
	r.HandleFunc("/gym/plans/{id}", plansHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	r.HandleFunc("/gym/plans/{id}", plansHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-plan")
	r.HandleFunc("/gym/plans/{id}", plansHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-plan")
	r.HandleFunc("/gym/plans/{id}/workouts/{workoutId}/inputs", plansHandler.HandleWorkoutInputs).Methods("GET", "OPTIONS").Name("workout-inputs")
	r.HandleFunc("/gym/plans/{id}/workouts/{workoutId}/finish", plansHandler.HandleFinishWorkout).Methods("POST", "OPTIONS").Name("finish-workout")
	r.HandleFunc("/gym/plans/{id}/workouts", plansHandler.HandleAddWorkout).Methods("POST", "OPTIONS").Name("add-plan-workout")
	r.HandleFunc("/gym/plans/{id}/workouts/{workoutId}", plansHandler.HandleRenameWorkout).Methods("PUT", "OPTIONS").Name("rename-plan-workout")
	r.HandleFunc("/gym/plans/{id}/workouts/{workoutId}", plansHandler.HandleRemoveWorkout).Methods("DELETE", "OPTIONS").Name("remove-plan-workout")
	r.HandleFunc("/gym/plans/{id}/workouts/{workoutId}/exercises", plansHandler.HandleAddExercise).Methods("POST", "OPTIONS").Name("add-plan-exercise")
	r.HandleFunc("/gym/plans/{id}/workouts/{workoutId}/exercises/{exerciseId}", plansHandler.HandleUpdateExercise).Methods("PATCH", "OPTIONS").Name("update-plan-exercise")
	r.HandleFunc("/gym/plans/{id}/workouts/{workoutId}/exercises/{exerciseId}", plansHandler.HandleRemoveExercise).Methods("DELETE", "OPTIONS").Name("remove-plan-exercise")

	coverageService := coverage.NewService(sessionsRepo, s.clock, s.config.WeekLocation(), s.metricsManager)
	coverageHandler := coverage.NewHandler(coverageService)
	r.HandleFunc("/gym/coverage/week", coverageHandler.HandleWeek).Methods("GET", "OPTIONS").Name("week-coverage")
	r.HandleFunc("/gym/coverage/week/watch", coverageHandler.HandleWatch).Methods("GET", "OPTIONS").Name("watch-week-coverage")

	catalogHandler := catalog.NewHandler(s.catalog)
	r.HandleFunc("/gym/exercises", catalogHandler.HandleSearch).Methods("GET", "OPTIONS").Name("search-exercises")
	r.HandleFunc("/gym/exercises/{id}", catalogHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")

	mcpDeps := gymmcp.Deps{
		Sessions:  sessionsRepo,
		Coverage:  coverageService,
		Templates: templateStore,
		Plans:     plansRepo,
		Catalog:   s.catalog,
	}
	if s.dbPool != nil {
		mcpDeps.Schema = gymmcp.NewPoolSchemaRepo(s.dbPool)
	}
	mcpServer := gymmcp.NewServer(mcpDeps, gymmcp.TransportHTTP)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(otelhttp.NewHandler(mcpHandler, "mcp")).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	ownerMiddleware := middleware.NewOwnerMiddlewareHandler(s.proxySecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(ownerMiddleware.OwnerCheck())
	if s.redisClient != nil {
		r.Use(middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"gym-router",
			s.config.RateLimitAllowedPerMin,
			s.metricsManager,
		))
	}
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:     router,
		Addr:        ipAndPort,
		ReadTimeout: time.Minute,
		// no WriteTimeout: coverage watch streams stay open
		ConnState: s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if err := s.closeStore(); err != nil {
		log.Errorf("failed to close document store: %s", err)
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
