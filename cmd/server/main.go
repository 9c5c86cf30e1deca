// fundsim - Fund portfolio simulation service
// Entry point for the web server
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findosh/fundsim/internal/config"
	"github.com/findosh/fundsim/internal/handlers"
	"github.com/findosh/fundsim/internal/logging"
	"github.com/findosh/fundsim/internal/services/catalog"
	"github.com/findosh/fundsim/internal/services/session"
	"github.com/findosh/fundsim/internal/services/simulation"
	"github.com/findosh/fundsim/internal/storage"
	"github.com/phuslu/log"
)

func main() {
	configFile := flag.String("config", "fundsim.toml", "Path to the TOML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Load the fund catalog
	fundRepo := storage.NewFundRepository(db)
	if cfg.CatalogFile != "" {
		if err := importCatalog(db, fundRepo, cfg.CatalogFile); err != nil {
			log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("Failed to import catalog")
		}
	}
	cat, err := catalog.Open(fundRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	// Initialize services
	sessions, err := session.NewManager(session.Options{
		SecretKey:         cfg.SecretKey,
		Duration:          cfg.SessionDuration,
		SweepInterval:     cfg.SessionSweep,
		DefaultInvestment: cfg.DefaultInvestment,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize sessions")
	}
	if err := sessions.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start session sweeper")
	}
	defer sessions.Stop()

	simulator, err := simulation.NewService(cfg.Horizons...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize simulation")
	}

	h := handlers.New(cfg, cat, sessions, simulator)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", "http://localhost"+server.Addr).
			Str("environment", cfg.Environment).
			Int("funds", cat.Len()).
			Msg("fundsim server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// importCatalog loads path into the fund table and records the import
func importCatalog(db *storage.DB, funds *storage.FundRepository, path string) error {
	result, err := catalog.NewService().Import(path, funds)
	if err != nil {
		return err
	}

	imp := &storage.Import{
		Source:  result.Source,
		File:    path,
		Funds:   len(result.Funds),
		Skipped: len(result.Errors),
	}
	if err := storage.NewImportRepository(db).Create(imp); err != nil {
		return err
	}

	log.Info().
		Str("file", path).
		Str("source", result.Source).
		Int("funds", imp.Funds).
		Int("skipped", imp.Skipped).
		Msg("Catalog imported")
	return nil
}
