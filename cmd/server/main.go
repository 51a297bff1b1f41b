package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wyydra/meet/internal/adapter/driven/broker/rabbitmq"
	"github.com/Wyydra/meet/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/meet/internal/adapter/driven/persistence/memory"
	"github.com/Wyydra/meet/internal/adapter/driven/persistence/sqlite"
	handler "github.com/Wyydra/meet/internal/adapter/driving/http"
	"github.com/Wyydra/meet/internal/config"
	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/port"
	"github.com/Wyydra/meet/internal/core/service"
	"github.com/Wyydra/meet/internal/logging"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		l := logging.New("info", true)
		l.Fatal().Err(err).Msg("Invalid configuration")
	}
	l := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		messages port.MessageRepository
		configs  port.UserConfigRepository
	)
	if cfg.DBPath == "" {
		l.Warn().Msg("MEET_DB_PATH is empty, using in-memory storage")
		messages = memory.NewMessageRepository()
		configs = memory.NewUserConfigRepository()
	} else {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			l.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open database")
		}
		defer store.Close()
		messages, configs = store, store
		l.Info().Str("path", cfg.DBPath).Msg("Database ready")
	}

	hub := ws.NewHub()
	go hub.Run()

	var publisher port.EventPublisher
	if cfg.AMQPURL != "" {
		bus, err := rabbitmq.Dial(ctx, rabbitmq.Config{URL: cfg.AMQPURL, Exchange: cfg.AMQPExchange})
		if err != nil {
			l.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer bus.Close()
		publisher = bus
		go func() {
			if err := bus.Consume(ctx, hub); err != nil && ctx.Err() == nil {
				l.Error().Err(err).Msg("RabbitMQ consumer exited")
			}
		}()
	}

	postService := service.NewPostService(messages, hub)
	callService := service.NewCallService(postService, cfg.ProviderURL)
	configService := service.NewUserConfigService(configs, hub, publisher, domain.NamingScheme(cfg.NamingScheme))
	h := handler.NewHandler(postService, callService, configService, hub)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info().Str("addr", cfg.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	l.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("Server forced to shutdown")
	}

	hub.Stop()
	l.Info().Msg("Server exited")
}
