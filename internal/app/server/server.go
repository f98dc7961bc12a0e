package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfsvc/internal/domain/audit"
	"perfsvc/internal/domain/auth"
	"perfsvc/internal/domain/notifications"
	"perfsvc/internal/domain/performance"
	"perfsvc/internal/platform/config"
	"perfsvc/internal/platform/crypto"
	"perfsvc/internal/platform/db"
	"perfsvc/internal/platform/email"
	"perfsvc/internal/platform/employees"
	"perfsvc/internal/platform/events"
	"perfsvc/internal/platform/jobs"
	"perfsvc/internal/platform/metrics"
	"perfsvc/internal/platform/redis"
	"perfsvc/internal/platform/tracing"
	audithandler "perfsvc/internal/transport/http/handlers/audit"
	jobshandler "perfsvc/internal/transport/http/handlers/jobs"
	notificationshandler "perfsvc/internal/transport/http/handlers/notifications"
	performancehandler "perfsvc/internal/transport/http/handlers/performance"
	"perfsvc/internal/transport/http/middleware"
	"perfsvc/migrations"
)

const APIPrefix = "/api/v1/performance/v1"

// Options selects how the app is assembled. Memory keeps every store
// in-process and skips postgres, redis and kafka.
type Options struct {
	Memory bool
	Limits performance.Limits
	Logger *slog.Logger
}

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Router  http.Handler
	Service *performance.Service
	Jobs    *jobs.Service

	pool     *pgxpool.Pool
	redis    *redis.Client
	consumer *events.Consumer
	checks   map[string]func(context.Context) error
	closers  []func(context.Context) error
}

// Build wires the performance service and its HTTP surface. Callers must
// Close the returned app.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{Config: cfg, Logger: logger, checks: map[string]func(context.Context) error{}}
	built := false
	defer func() {
		if !built {
			app.Close(context.Background())
		}
	}()

	shutdownTracing, err := tracing.Init(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	app.closers = append(app.closers, shutdownTracing)

	var (
		stores      performance.Stores
		notifyStore notifications.StoreAPI
		trail       audit.Trail
		recorder    jobs.Recorder
		idempotency middleware.IdempotencyStore
		directory   interface {
			performance.EmployeeDirectory
			notifications.Recipients
		}
		invalidator events.Invalidator
	)

	if opts.Memory {
		mem := performance.NewMemoryStore()
		stores = mem.Stores()
		notifyStore = notifications.NewMemoryStore()
		trail = audit.NewMemoryTrail()
		recorder = jobs.NewMemoryRecorder()
		idempotency = middleware.NewMemoryIdempotencyStore()
		directory = employees.NewStaticDirectory()
		logger.Warn("running with in-memory stores; data is lost on exit")
	} else {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.pool = pool
		app.checks["database"] = pool.Ping
		if cfg.RunMigrations {
			if _, err := db.Migrate(ctx, pool, migrations.FS); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		stores = performance.NewStore(pool).Stores()
		notifyStore = notifications.NewStore(pool)
		trail = audit.New(pool)
		recorder = jobs.NewDBRecorder(pool)

		rc, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		clientOpts := []employees.Option{
			employees.WithHTTPClient(&http.Client{Timeout: cfg.EmployeeHTTPTimeout}),
			employees.WithLogger(logger),
		}
		if rc != nil {
			app.redis = rc
			app.checks["redis"] = rc.Health
			clientOpts = append(clientOpts, employees.WithCache(employees.NewRedisCache(rc.Client), cfg.EmployeeCacheTTL))
			idempotency = middleware.NewRedisIdempotencyStore(rc.Client)
		} else {
			clientOpts = append(clientOpts, employees.WithCache(employees.NewMemoryCache(), cfg.EmployeeCacheTTL))
			idempotency = middleware.NewMemoryIdempotencyStore()
		}
		client := employees.NewClient(cfg.EmployeeServiceURL, clientOpts...)
		directory = client
		invalidator = client
	}

	notifier := notifications.New(notifyStore,
		notifications.WithLogger(logger),
		notifications.WithMailer(email.New(cfg), directory, cfg.EmailFrom),
	)

	var publisher performance.EventPublisher = events.NewLogPublisher(logger)
	if !opts.Memory && len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
		if err != nil {
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		publisher = kp
		app.checks["kafka"] = kp.Ping
		app.closers = append(app.closers, func(context.Context) error { kp.Close(); return nil })
	}

	anonymizer, err := crypto.NewAnonymizer(cfg.AnonymizationKey)
	if err != nil {
		return nil, err
	}
	if !anonymizer.Keyed() {
		logger.Warn("ANONYMIZATION_KEY not set; anonymous feedback uses an unkeyed hash")
	}

	collector := metrics.New()
	limits := opts.Limits
	if limits == (performance.Limits{}) {
		limits = performance.DefaultLimits()
	}
	svc, err := performance.NewService(stores, directory,
		performance.WithNotifier(notifier),
		performance.WithPublisher(publisher),
		performance.WithAnonymizer(anonymizer),
		performance.WithMetrics(collector),
		performance.WithLimits(limits),
		performance.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	app.Service = svc
	app.Jobs = jobs.New(svc, recorder, cfg, logger)

	if !opts.Memory && len(cfg.KafkaBrokers) > 0 {
		dispatcher := events.NewDispatcher(svc, invalidator, logger)
		consumer, err := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaEmployeeTopic, cfg.KafkaGroupID, dispatcher, logger)
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		app.consumer = consumer
	}

	app.Router = app.routes(cfg, collector, svc, notifier, trail, idempotency)
	built = true
	return app, nil
}

func (a *App) routes(cfg config.Config, collector *metrics.Collector, svc *performance.Service, notifier *notifications.Service, trail audit.Trail, idempotency middleware.IdempotencyStore) http.Handler {
	perms := auth.StaticPermissions{}
	window := time.Minute

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Logger, collector))
	router.Use(middleware.Recoverer(a.Logger))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", a.handleReady)
	if cfg.MetricsEnabled {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route(APIPrefix, func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, a.Logger))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, window))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, window))
		r.Use(middleware.Idempotency(idempotency, a.Logger))

		performancehandler.NewHandler(svc, perms, trail, a.Logger).RegisterRoutes(r)
		notificationshandler.NewHandler(notifier).RegisterRoutes(r)
		audithandler.NewHandler(trail, perms).RegisterRoutes(r)
		jobshandler.NewHandler(a.Jobs, perms).RegisterRoutes(r)
	})
	return router
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			a.Logger.Warn("readiness check failed", "dependency", name, "err", err)
			http.Error(w, name+" not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Run serves HTTP, the scheduled jobs and the employee event consumer until
// ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.Config.JobsEnabled {
		a.Jobs.Start(ctx)
	}
	if a.consumer != nil {
		go func() {
			if err := a.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.Logger.Error("employee event consumer stopped", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("performance service listening", "addr", a.Config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	a.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close(ctx context.Context) {
	if a.consumer != nil {
		a.consumer.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Logger.Warn("shutdown step failed", "err", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// Pool exposes the database pool for maintenance commands.
func (a *App) Pool() *pgxpool.Pool {
	return a.pool
}
