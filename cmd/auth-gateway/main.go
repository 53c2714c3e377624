// Command auth-gateway runs the Supabase auth façade as a long-lived
// HTTP listener. The server itself is a plain http.Handler, so it can
// also be mounted inside a serverless host.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/supabridge/auth-gateway/internal/config"
	"github.com/supabridge/auth-gateway/internal/server"
	"github.com/supabridge/auth-gateway/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	if !cfg.HasSupabaseDefaults() {
		log.Warn().Msg("SUPABASE_URL or SUPABASE_ANON_KEY missing; requests must supply override headers")
	}

	srv := server.New(cfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv,
		ReadTimeout:  config.DefaultServerReadTimeout,
		WriteTimeout: config.DefaultServerWriteTimeout,
	}

	log.Info().
		Int("port", cfg.Port).
		Str("supabase_url", cfg.SupabaseURL).
		Str("anon_key", utils.MaskKey(cfg.SupabaseAnonKey)).
		Str("service_key", utils.MaskKey(cfg.SupabaseServiceKey)).
		Msg("auth gateway starting")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}

// setupLogging configures the global zerolog logger for console output
// at the configured level.
func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
