package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/psds-microservice/admin-console/internal/apiclient"
	"github.com/psds-microservice/admin-console/internal/audit"
	"github.com/psds-microservice/admin-console/internal/config"
	"github.com/psds-microservice/admin-console/internal/database"
	"github.com/psds-microservice/admin-console/internal/handler"
	"github.com/psds-microservice/admin-console/internal/router"
	"github.com/psds-microservice/admin-console/internal/session"
	"github.com/psds-microservice/admin-console/internal/workflow"
	"go.uber.org/zap"
)

// API is the console HTTP server with its session manager and per-operator workspaces.
type API struct {
	cfg      *config.Config
	log      *zap.Logger
	httpSrv  *http.Server
	sessions *session.Manager
	audit    *audit.Producer
	ready    atomic.Bool
}

// NewStore returns the session store selected by SESSION_STORE, migrating first for postgres.
func NewStore(cfg *config.Config, log *zap.Logger) (session.Store, error) {
	if !cfg.UsesDatabase() {
		log.Warn("sessions are kept in memory and will not survive a restart")
		return session.NewMemoryStore(), nil
	}
	if err := database.MigrateUp(cfg.DatabaseURL(), log); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN(), cfg.AppEnv == "development")
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return session.NewGormStore(db), nil
}

func NewClient(cfg *config.Config, log *zap.Logger) *apiclient.Client {
	return apiclient.New(apiclient.Options{
		BaseURL: cfg.MarketplaceURL,
		Timeout: cfg.MarketplaceTimeout,
		Logger:  log.Named("marketplace"),
	})
}

func NewAPI(cfg *config.Config, log *zap.Logger) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	store, err := NewStore(cfg, log)
	if err != nil {
		return nil, err
	}
	client := NewClient(cfg, log)
	producer := audit.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicAudit, log.Named("audit"))

	manager := session.NewManager(store, client, log.Named("session"))
	registry := workflow.NewRegistry(client, client, producer, log.Named("workflow"))
	manager.OnEnd(registry.Drop)

	a := &API{cfg: cfg, log: log, sessions: manager, audit: producer}
	h := router.New(router.Deps{
		Sessions: manager,
		KYC:      handler.NewKYCHandler(registry),
		Tickets:  handler.NewTicketHandler(registry),
		Content:  handler.NewContentHandler(client),
		Ready:    a.ready.Load,
	})
	a.httpSrv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// Run rehydrates persisted sessions, serves HTTP and blocks until ctx is cancelled.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	a.log.Info("HTTP server listening",
		zap.String("addr", a.httpSrv.Addr),
		zap.String("swagger", base+"/swagger"),
		zap.String("health", base+"/health"),
		zap.String("metrics", base+"/metrics"),
		zap.String("api", base+"/api/v1/"),
		zap.String("marketplace", a.cfg.MarketplaceURL),
		zap.Bool("audit", a.audit.Enabled()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if _, err := a.sessions.Rehydrate(ctx); err != nil {
		a.log.Error("session rehydrate failed, starting with none", zap.Error(err))
	}
	a.ready.Store(true)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.audit.Close(); err != nil {
		a.log.Warn("audit close", zap.Error(err))
	}
	return nil
}
