package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/dataprobe-io/probe-engine/pkg/config"
	"github.com/dataprobe-io/probe-engine/pkg/engines"
	"github.com/dataprobe-io/probe-engine/pkg/handlers"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bindAddr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.Float64("samplePercent", cfg.Profiler.SamplePercent),
	)

	manager := engines.NewManager(engines.ManagerConfig{
		TTLMinutes:        cfg.Engines.TTLMinutes,
		MaxEnginesPerUser: cfg.Engines.MaxEnginesPerUser,
	}, nil, logger)
	defer func() { _ = manager.Close() }()

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	dialectsHandler := handlers.NewDialectsHandler(manager, logger)
	dialectsHandler.RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting probe-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version),
	)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
