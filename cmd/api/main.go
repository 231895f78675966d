package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/vendormart/vendormart-api/internal/config"
	"github.com/vendormart/vendormart-api/internal/database"
	"github.com/vendormart/vendormart-api/internal/handlers"
	"github.com/vendormart/vendormart-api/internal/logger"
	"github.com/vendormart/vendormart-api/internal/routes"
	"github.com/vendormart/vendormart-api/internal/upload"
)

func main() {
	log := logger.Get()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.Open(&cfg.DB)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	uploads := &upload.Store{
		Root:     cfg.Upload.Root,
		StageDir: cfg.Upload.StageDir,
	}

	// Reclaim staged uploads orphaned by a crash between DB commit and
	// file move, then keep sweeping hourly.
	uploads.SweepStale(cfg.Upload.StageMaxAge, log)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			uploads.SweepStale(cfg.Upload.StageMaxAge, log)
		}
	}()

	app := &handlers.Handlers{
		DB:      db,
		Cfg:     cfg,
		Uploads: uploads,
	}

	router := routes.SetupRouter(app)

	log.Info("starting vendormart API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
