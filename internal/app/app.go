package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/racha-hq/racha-manager/internal/config"
	"github.com/racha-hq/racha-manager/internal/domain/draft"
	"github.com/racha-hq/racha-manager/internal/infrastructure/account/gapura"
	"github.com/racha-hq/racha-manager/internal/infrastructure/repository/memory"
	"github.com/racha-hq/racha-manager/internal/infrastructure/repository/postgres"
	"github.com/racha-hq/racha-manager/internal/infrastructure/roster"
	"github.com/racha-hq/racha-manager/internal/interfaces/httpapi"
	"github.com/racha-hq/racha-manager/internal/platform/cache"
	"github.com/racha-hq/racha-manager/internal/platform/logging"
	"github.com/racha-hq/racha-manager/internal/platform/resilience"
	"github.com/racha-hq/racha-manager/internal/usecase"
)

// NewHTTPServer wires storage, upstream clients and services into an HTTP
// server. The returned cleanup releases held resources (today: the database
// pool) and must be called on shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanup := func(context.Context) error { return nil }

	var historyStore draft.HistoryStore
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		historyStore = postgres.NewDraftHistoryRepository(db)
		cleanup = func(context.Context) error { return db.Close() }
		logger.Info("draft history storage ready",
			"driver", cfg.StorageDriver,
			"db_name", dbNameFromURL(cfg.DBURL),
		)
	case config.StorageMemory:
		historyStore = memory.NewDraftHistoryRepository()
		logger.Info("draft history storage ready", "driver", cfg.StorageDriver)
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	rosterService := newRosterService(cfg, logger)
	draftService := usecase.NewDraftService(historyStore, rosterService, cache.NewStore(cfg.CacheTTL))
	recomputeService := usecase.NewRecomputeService(historyStore, draftService)

	verifier := gapura.NewClient(
		&http.Client{Timeout: cfg.GapuraTimeout},
		cfg.GapuraBaseURL,
		cfg.GapuraIntrospectPath,
		cfg.GapuraAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.GapuraCircuitEnabled,
			FailureThreshold: cfg.GapuraCircuitFailureCount,
			OpenTimeout:      cfg.GapuraCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GapuraCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(draftService, rosterService, recomputeService, logger)
	router := httpapi.NewRouter(
		handler,
		verifier,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// newRosterService picks the participant sources: the external attendance
// service when configured, otherwise the seeded in-memory directory so the
// API is usable out of the box.
func newRosterService(cfg config.Config, logger *logging.Logger) *usecase.RosterService {
	if cfg.RosterEnabled {
		client := roster.NewClient(
			&http.Client{Timeout: cfg.RosterTimeout},
			cfg.RosterBaseURL,
			cfg.RosterAPIKey,
			resilience.CircuitBreakerConfig{
				Enabled:          cfg.RosterCircuitEnabled,
				FailureThreshold: cfg.RosterCircuitFailureCount,
				OpenTimeout:      cfg.RosterCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.RosterCircuitHalfOpenMaxReq,
			},
		)
		logger.Info("roster source ready", "mode", "attendance-service", "base_url", cfg.RosterBaseURL)

		return usecase.NewRosterService(client, client, client)
	}

	directory := memory.NewParticipantDirectory()
	memory.SeedDirectory(directory)
	logger.Info("roster source ready", "mode", "seeded-memory")

	return usecase.NewRosterService(directory, directory, directory)
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
