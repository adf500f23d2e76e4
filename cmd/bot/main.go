// Package main is the entry point of the pet bot.
//
// Startup order: config → logger → catalog → record store → engines →
// Telegram polling + keep-alive HTTP. SIGINT/SIGTERM stop polling and
// drain the HTTP listener within APP_SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/alem-hub/petquest/config"
	"github.com/alem-hub/petquest/internal/application/command"
	"github.com/alem-hub/petquest/internal/application/query"
	tgclient "github.com/alem-hub/petquest/internal/infrastructure/external/telegram"
	"github.com/alem-hub/petquest/internal/infrastructure/persistence"
	httpserver "github.com/alem-hub/petquest/internal/interface/http"
	"github.com/alem-hub/petquest/internal/interface/http/handlers"
	"github.com/alem-hub/petquest/internal/interface/telegram"
	"github.com/alem-hub/petquest/internal/interface/telegram/middleware"
	"github.com/alem-hub/petquest/internal/interface/telegram/presenter"
	"github.com/alem-hub/petquest/pkg/logger"
	"github.com/alem-hub/petquest/pkg/random"
	"github.com/alem-hub/petquest/pkg/timeutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "petquest: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// Configuration & logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Level:   cfg.Observability.LogLevel,
		Format:  logger.Format(cfg.LogFormat()),
		Output:  os.Stdout,
	})
	log.Info().
		Str("version", cfg.App.Version).
		Str("env", string(cfg.App.Environment)).
		Str("backend", string(cfg.Storage.Backend)).
		Str("timezone", cfg.App.Timezone).
		Msg("starting petquest")

	// ─────────────────────────────────────────────────────────────────────────
	// Catalog, locale & store
	// ─────────────────────────────────────────────────────────────────────────
	catalog, err := config.LoadCatalog(cfg.Bot.CatalogFile)
	if err != nil {
		return err
	}
	locale, err := presenter.LocaleFor(cfg.Bot.Locale)
	if err != nil {
		return err
	}

	opened, err := persistence.Open(ctx, cfg.Storage, logger.Component(log, "store"))
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer opened.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// Engines
	// ─────────────────────────────────────────────────────────────────────────
	source, err := random.NewSecureSource()
	if err != nil {
		return err
	}
	clock := timeutil.NewSystemClock(cfg.App.Timezone)
	uow := command.NewUnitOfWork(opened.Store)
	greeter := command.NewGreeter(source, locale.Greetings...)

	pres := presenter.New(catalog, locale, cfg.Bot.CommandPrefix)
	router := telegram.NewRouter(telegram.RouterDeps{
		Parser:    telegram.NewParser(cfg.Bot.CommandPrefix),
		Presenter: pres,
		Activity:  command.NewAccrueActivityHandler(uow, catalog, clock, greeter),
		Purchase:  command.NewPurchasePetHandler(uow, catalog),
		Rename:    command.NewRenamePetHandler(uow, catalog),
		Stats:     query.NewGetStatsHandler(opened.Store, catalog),
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Metrics
	// ─────────────────────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	var metrics *middleware.Metrics
	if cfg.Observability.MetricsEnabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if metrics, err = middleware.NewMetrics(registry); err != nil {
			return err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Transport & bot
	// ─────────────────────────────────────────────────────────────────────────
	clientCfg := tgclient.DefaultClientConfig(cfg.Telegram.Token)
	clientCfg.PollingTimeout = cfg.Telegram.PollingTimeout
	clientCfg.Debug = cfg.Telegram.Debug
	clientCfg.Logger = log

	client, err := tgclient.NewClient(clientCfg)
	if err != nil {
		return err
	}

	limiterCfg := middleware.DefaultRateLimitConfig()
	limiterCfg.RequestsPerMinute = cfg.Bot.UserRatePerMinute
	limiterCfg.BurstSize = cfg.Bot.UserBurst
	limiter := middleware.NewRateLimiter(limiterCfg)

	bot := telegram.NewBot(telegram.BotDeps{
		Transport: client,
		Router:    router,
		Presenter: pres,
		Limiter:   limiter,
		Metrics:   metrics,
		Logger:    log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Run
	// ─────────────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(gctx)
	})

	if limiter.Enabled() {
		g.Go(func() error {
			return limiter.Run(gctx)
		})
	}

	if cfg.HTTP.Enabled {
		health := handlers.NewHealthChecker(cfg.App.Version)
		health.AddCheck("store", handlers.StoreCheck(opened.Store))

		httpCfg := httpserver.DefaultConfig()
		httpCfg.Host = cfg.HTTP.Host
		httpCfg.Port = cfg.HTTP.Port
		httpCfg.EnableMetrics = cfg.Observability.MetricsEnabled
		server := httpserver.NewServer(httpCfg, httpserver.Dependencies{
			Health:   health,
			Gatherer: registry,
			Logger:   log,
		})

		g.Go(server.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.App.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("stopped with error")
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}

// compile-time check that the Bot API client satisfies the bot transport.
var _ telegram.Transport = (*tgclient.Client)(nil)
