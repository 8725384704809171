package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/socat/omegeo/internal/adapters/http"
	natsadapter "github.com/socat/omegeo/internal/adapters/nats"
	"github.com/socat/omegeo/internal/adapters/nominatim"
	"github.com/socat/omegeo/internal/adapters/postgres"
	"github.com/socat/omegeo/internal/adapters/valkey"
	"github.com/socat/omegeo/internal/core/ports"
	"github.com/socat/omegeo/internal/core/usecases"
	"github.com/socat/omegeo/internal/pkg/config"
	"github.com/socat/omegeo/internal/pkg/logging"
	"github.com/socat/omegeo/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("omegeo-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go db.ReportPoolMetrics(ctx, 15*time.Second)

	// Cache (optional)
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// Region events (optional)
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, regions will not be published", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	feed := usecases.NewRegionFeed(cfg.Server.RegionFeed)
	hostname, _ := os.Hostname()
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "omegeo-api-"+hostname)
	if err != nil {
		slog.Warn("nats subscriber unavailable, region feed disabled", "error", err)
	} else {
		defer sub.Close()
		if err := feed.Follow(ctx, sub); err != nil {
			slog.Warn("region feed subscription failed", "error", err)
		}
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	geocoder := nominatim.NewClient(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
	)

	placeRepo := postgres.NewPlaceRepo(db)

	deps := &http.Dependencies{
		Conversions: usecases.NewConversionService(),
		Regions:     usecases.NewRegionService(events),
		Places:      usecases.NewPlaceService(placeRepo, geocoder, cacheSvc, cfg.Geocoder.FallbackRadiusM),
		Feed:        feed,
		NATS:        natsConn,
		DB:          db,
		Cache:       cache,
		Version:     version,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "omegeo API",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match",
		ExposeHeaders:    "ETag, Link, Deprecation, Sunset",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
