package app

import (
	"fmt"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/amaumene/kioskarr/internal/api"
	"github.com/amaumene/kioskarr/internal/auth"
	"github.com/amaumene/kioskarr/internal/client"
	"github.com/amaumene/kioskarr/internal/config"
	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/metrics"
	"github.com/amaumene/kioskarr/internal/scheduler"
	"github.com/amaumene/kioskarr/internal/session"
	"github.com/amaumene/kioskarr/internal/storage"
	"github.com/amaumene/kioskarr/internal/stores"
	"github.com/amaumene/kioskarr/internal/utils"
)

// App holds the assembled kiosk client
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Translator *i18n.Translator
	Session    *session.Session
	Client     *client.Client
	Requests   *stores.RequestStore
	Search     *stores.SearchStore
	Gate       *auth.Gate
	Router     *auth.Router
	Refresher  *scheduler.Refresher
	Server     *api.Server
}

// ProviderSet assembles the kiosk client from its configuration
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideTokenStore,
	session.New,
	ProvideRegistry,
	metrics.New,
	ProvideTracerProvider,
	ProvideTranslator,
	client.New,
	wire.Bind(new(stores.RequestAPI), new(*client.Client)),
	wire.Bind(new(stores.SearchAPI), new(*client.Client)),
	wire.Bind(new(auth.API), new(*client.Client)),
	stores.NewRequestStore,
	ProvideSearchStore,
	auth.NewGate,
	ProvideRouter,
	ProvideRefresher,
	ProvideServer,
)

// ProvideLogger builds the process logger
func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return utils.NewLogger(cfg.LogLevel)
}

// ProvideTokenStore opens the SQLite state database, or keeps the token in memory when ephemeral
func ProvideTokenStore(cfg *config.Config, logger zerolog.Logger) (session.TokenStore, func(), error) {
	if cfg.Ephemeral {
		return session.NewMemoryTokenStore(), func() {}, nil
	}

	db, err := storage.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Debug().Str("path", cfg.DatabaseFile).Msg("Database initialized")

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close database")
		}
	}
	return db, cleanup, nil
}

// ProvideRegistry creates the per-app Prometheus registry
func ProvideRegistry() prometheus.Registerer {
	return metrics.NewRegistry()
}

// ProvideTranslator creates the translator for the configured language
func ProvideTranslator(cfg *config.Config) *i18n.Translator {
	return i18n.NewTranslator(cfg.Language)
}

// ProvideSearchStore creates the search store with the configured details cache lifetime
func ProvideSearchStore(searchAPI stores.SearchAPI, tr *i18n.Translator, cfg *config.Config, logger zerolog.Logger) *stores.SearchStore {
	return stores.NewSearchStore(searchAPI, tr, cfg.DetailsCacheTTL, logger)
}

// ProvideRouter creates the router guarded by the gate
func ProvideRouter(gate *auth.Gate, logger zerolog.Logger) *auth.Router {
	return auth.NewRouter(gate, logger)
}

// ProvideRefresher creates the requests refresher
func ProvideRefresher(requests *stores.RequestStore, cfg *config.Config, logger zerolog.Logger) *scheduler.Refresher {
	return scheduler.NewRefresher(requests, cfg.RefreshInterval, logger)
}

// ProvideServer creates the status server exposing the registry
func ProvideServer(cfg *config.Config, gate *auth.Gate, requests *stores.RequestStore, reg prometheus.Registerer, logger zerolog.Logger) *api.Server {
	var gatherer prometheus.Gatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	return api.NewServer(cfg, gate, requests, gatherer, logger)
}
