package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Yplus/internal/auth"
	"Yplus/internal/config"
	"Yplus/internal/logging"
	"Yplus/internal/repo"
	"Yplus/internal/server"

	flag "github.com/spf13/pflag"
)

var wg sync.WaitGroup

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config.toml")
	flag.Parse()

	log := logging.Logger()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		log.Warn().Err(err).Str("level", cfg.LogLevel).Msg("unknown log level")
	}
	log = logging.Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store repo.Repository
	switch {
	case cfg.DatabaseURL != "":
		db, err := auth.InitDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database")
		}
		defer db.Close()
		pg := repo.NewPostgresUserDB(db)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		store = pg
	case cfg.AccountsEnabled():
		log.Warn().Msg("no database configured, accounts and history are kept in memory")
		store = repo.NewMemoryRepository()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", cfg.Addr).Bool("tls", cfg.TLS()).Bool("accounts", store != nil).Msg("starting server")
		var err error
		if cfg.TLS() {
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	wg.Wait()
	log.Info().Msg("server stopped")
}
