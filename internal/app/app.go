package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gincana/placar/internal/config"
	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/handler"
	"github.com/gincana/placar/internal/metrics"
	"github.com/gincana/placar/internal/middleware"
	"github.com/gincana/placar/internal/repository"
	"github.com/gincana/placar/internal/repository/filestore"
	"github.com/gincana/placar/internal/repository/postgres"
	"github.com/gincana/placar/internal/service"
	"github.com/gincana/placar/internal/session"
)

// App owns the configuration, the storage backend and the HTTP server
type App struct {
	config   *config.Config
	logger   *zap.Logger
	store    repository.Store
	registry *prometheus.Registry
	router   http.Handler
	server   *http.Server
}

// New creates an application; call Initialize before Run
func New(cfg *config.Config, logger *zap.Logger) *App {
	return &App{
		config: cfg,
		logger: logger,
	}
}

// Initialize opens storage, seeds the ledger and builds the router
func (a *App) Initialize(ctx context.Context) error {
	store, err := OpenStore(ctx, a.config, a.logger)
	if err != nil {
		return err
	}
	a.store = store

	if err := store.EnsureTeams(ctx, a.config.Game.Teams); err != nil {
		return fmt.Errorf("failed to create teams: %w", err)
	}

	if err := a.setupServer(ctx); err != nil {
		return err
	}

	a.logger.Info("application initialized",
		zap.String("backend", a.config.Storage.Backend),
		zap.Strings("teams", a.config.Game.Teams),
		zap.String("goal", a.config.Game.Goal.String()),
	)
	return nil
}

// OpenStore connects the configured backend. A postgres database is
// migrated before use.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("connected to database")
		return postgres.NewStore(pool), nil
	default:
		store, err := filestore.Open(cfg.Storage.DataFile, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		return store, nil
	}
}

func (a *App) setupServer(ctx context.Context) error {
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(a.registry)

	userService := service.NewUserService(a.store, a.logger)
	authService := service.NewAuthService(
		userService,
		a.store,
		session.NewMemoryStore(),
		a.config.Session.Secret,
		a.config.Session.GetTTL(),
		m,
		a.logger,
	)
	ledgerService := service.NewLedgerService(a.store, a.store, m, a.logger)
	scoreboardService := service.NewScoreboardService(a.store, a.config.Game.Goal)

	if b := a.config.Bootstrap; b.AdminUsername != "" {
		if err := userService.EnsureAdmin(ctx, b.AdminUsername, b.AdminPassword); err != nil {
			return err
		}
	}

	renderer, err := handler.NewRenderer(a.logger)
	if err != nil {
		return err
	}

	authHandler := handler.NewAuthHandler(authService, renderer, a.config.Session.Secure, a.logger)
	boardHandler := handler.NewBoardHandler(scoreboardService, renderer, a.logger)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, scoreboardService, renderer, a.logger)
	userHandler := handler.NewUserHandler(userService, renderer, a.logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(a.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Public pages
	r.Get("/", authHandler.LoginForm)
	r.Post("/", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Get("/telao", boardHandler.Screen)
	r.Get("/api/placar", boardHandler.Placar)
	r.Get("/health", a.health)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	// Any logged in user
	r.With(middleware.RequireRoles(authService)).Get("/dashboard", boardHandler.Dashboard)

	// Administrators and leaders
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(authService, domain.ManagerRoles...))

		r.Get("/eventos", ledgerHandler.Events)
		r.Post("/eventos", ledgerHandler.CreateEvent)
		r.Get("/pontos", ledgerHandler.Points)
		r.Post("/pontos", ledgerHandler.AddPoints)
		r.Get("/financeiro", ledgerHandler.Finance)
		r.Post("/financeiro", ledgerHandler.CreateContribution)
		r.Get("/usuarios", userHandler.Users)
		r.Post("/usuarios", userHandler.CreateUser)
	})

	a.router = r
	a.server = &http.Server{
		Addr:         a.config.Server.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", zap.String("addr", a.server.Addr))
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if p, ok := a.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			a.logger.Warn("health check failed", zap.Error(err))
			handler.HandleError(w, r, err)
			return
		}
	}
	handler.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Handler returns the router; valid after Initialize
func (a *App) Handler() http.Handler {
	return a.router
}

// Run starts the HTTP server and blocks until it stops
func (a *App) Run() error {
	a.logger.Info("starting HTTP server", zap.String("addr", a.server.Addr))
	return a.server.ListenAndServe()
}

// Shutdown drains in-flight requests and closes storage
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down application")

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.logger.Info("application stopped gracefully")
	return nil
}
