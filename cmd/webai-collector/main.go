package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/config"
	"github.com/LucasStill/webai-collector/internal/dispatch"
	"github.com/LucasStill/webai-collector/internal/handler"
	"github.com/LucasStill/webai-collector/internal/identity"
	"github.com/LucasStill/webai-collector/internal/journal"
	"github.com/LucasStill/webai-collector/internal/metrics"
	"github.com/LucasStill/webai-collector/internal/server"
	"github.com/LucasStill/webai-collector/internal/session"
	"github.com/LucasStill/webai-collector/internal/validation"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load config
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/collector.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log.Info().Msg("Starting webai collector...")

	metrics.Register()

	disabled := session.LocalOrigin(cfg.Page.URL)
	if disabled {
		log.Warn().Str("url", cfg.Page.URL).Msg("Local page origin, capture disabled")
	}

	durable, err := newDurableStore(cfg.Identity)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open identity store")
	}
	defer durable.Close()
	ephemeral := identity.NewMemory()

	profile := session.NewProfile(cfg.Page.URL, cfg.Page.UserAgent, cfg.Page.Language)

	var id identity.Identity
	if !disabled {
		boot := session.NewBootstrap(session.BootstrapConfig{
			BaseURL:   cfg.Endpoint.BaseURL,
			Timeout:   time.Duration(cfg.Endpoint.TimeoutMs) * time.Millisecond,
			Version:   cfg.Endpoint.Version,
			Profile:   profile,
			Durable:   durable,
			Ephemeral: ephemeral,
			Prompter:  session.LogPrompter{},
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		id, err = boot.Run(ctx)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("Registration failed, collecting with empty identity")
		}
	}

	sinks := dispatch.Tee{
		dispatch.NewHTTP(cfg.Endpoint.BaseURL, time.Duration(cfg.Endpoint.TimeoutMs)*time.Millisecond, id),
	}

	if cfg.Kafka.Enabled {
		k := dispatch.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, id)
		defer k.Close()
		sinks = append(sinks, k)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka mirror enabled")
	}

	if cfg.Journal.Enabled {
		j, err := journal.New(cfg.Journal.Path, id)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open journal")
		}
		defer j.Close()
		sinks = append(sinks, j)
		log.Info().Str("path", cfg.Journal.Path).Msg("Journal enabled")
	}

	coll := collector.New(collector.Config{
		MinInterval:   time.Duration(cfg.Collector.MinIntervalMs) * time.Millisecond,
		FlushInterval: time.Duration(cfg.Collector.FlushIntervalMs) * time.Millisecond,
		Page:          cfg.Page.URL,
		Disabled:      disabled,
	}, sinks)
	coll.SetCapabilities(profile.HasTouch, profile.HasMouse)
	coll.Start()

	h := handler.NewHTTPHandler(coll, validation.NewValidator())
	intake := server.NewIntakeServer(cfg.Intake, h)

	go func() {
		log.Info().Str("addr", cfg.Intake.Addr).Msg("Starting intake server")
		if err := intake.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to serve intake")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := intake.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down intake server")
	}

	coll.Stop()
	log.Info().Msg("Collector stopped")
}

func newDurableStore(cfg config.IdentityConfig) (identity.Store, error) {
	switch cfg.Backend {
	case "redis":
		return identity.NewRedis(cfg.Redis), nil
	case "memory":
		return identity.NewMemory(), nil
	default:
		return identity.NewFile(cfg.Dir)
	}
}
