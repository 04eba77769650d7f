package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/telemctl/internal/config"
	"github.com/danmuck/telemctl/internal/export"
	"github.com/danmuck/telemctl/internal/httpapi"
	"github.com/danmuck/telemctl/internal/ingest"
	"github.com/danmuck/telemctl/internal/observability"
	"github.com/danmuck/telemctl/internal/publish"
	"github.com/danmuck/telemctl/internal/serialport"
	sig "github.com/danmuck/telemctl/internal/signal"
	"github.com/danmuck/telemctl/internal/store"
)

func main() {
	configPath := flag.String("config", "telemctl.toml", "path to TOML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "telemctl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := observability.InitLogger(cfg.Name)
	observability.RegisterMetrics()

	registry := sig.NewRegistry()
	drive := sig.DriveConfig{
		FrontSprocketTeeth: cfg.Drive.FrontSprocketTeeth,
		RearSprocketTeeth:  cfg.Drive.RearSprocketTeeth,
		WheelDiameterIn:    cfg.Drive.WheelDiameterIn,
	}
	st := store.New()

	groups := exportGroups(cfg, registry)

	opener := func() (io.ReadCloser, error) {
		return serialport.Open(serialport.Config{
			Port: cfg.Serial.Port,
			Baud: cfg.Serial.Baud,
		})
	}
	ingestCfg := ingest.DefaultConfig()
	ingestCfg.MaxConnectAttempts = cfg.Ingest.MaxConnectAttempts
	worker := ingest.NewWorker(opener, registry, drive, st, ingestCfg, logger)

	var publisher *publish.MQTTPublisher
	if cfg.MQTT.Enabled {
		publisher, err = publish.Connect(publish.Config{
			Broker:   cfg.MQTT.Broker,
			Topic:    cfg.MQTT.Topic,
			ClientID: cfg.MQTT.ClientID,
		})
		if err != nil {
			return err
		}
		defer publisher.Close()
		worker.SetPublisher(publisher)
		logger.Info().Str("broker", cfg.MQTT.Broker).Str("topic", cfg.MQTT.Topic).Msg("mqtt publisher connected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestDone := make(chan error, 1)
	go func() {
		ingestDone <- worker.Run(ctx)
	}()

	api := httpapi.NewServer(cfg.Name, st, groups)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(logger, cfg.CorsOrigins),
	}
	httpDone := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("http listening")
		httpDone <- srv.ListenAndServe()
	}()

	var fatal error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-ingestDone:
		// Only exhausted transport escalates; the store stays readable until
		// the process owner decides otherwise, so we still stop cleanly.
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("ingest worker stopped")
			fatal = err
		}
	case err := <-httpDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			fatal = err
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
	return fatal
}

func exportGroups(cfg config.Config, registry *sig.Registry) []export.Group {
	if len(cfg.Groups) == 0 {
		return export.DefaultGroups(registry.Names())
	}
	groups := make([]export.Group, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		groups = append(groups, export.Group{Display: g.Display, Signals: g.Signals})
	}
	return groups
}
