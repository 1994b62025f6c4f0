package main

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/moviesclub/moviesclub/src/internal/adapters/sqlite"
	"github.com/moviesclub/moviesclub/src/internal/config"
	"github.com/moviesclub/moviesclub/src/internal/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting moviesclub Catalog Service")

	cfg := config.CatalogServiceConfig{
		Port:          "3001",
		CatalogDBPath: "moviedata.db",
	}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := config.Load(path, &cfg); err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if path := os.Getenv("CATALOG_DB_PATH"); path != "" {
		cfg.CatalogDBPath = path
	}

	// The catalog is opened once, read-only, for the process lifetime. If it
	// cannot be opened we either fail fast or, when allow_degraded is set,
	// come up with the degraded flag raised. Never fixture data.
	var catalogSvc *services.CatalogService
	db, err := sqlite.OpenReadOnly(cfg.CatalogDBPath)
	if err != nil {
		if !cfg.AllowDegraded {
			logger.Fatal("failed to open catalog database",
				zap.String("path", cfg.CatalogDBPath), zap.Error(err))
		}
		logger.Warn("catalog database unavailable, serving in degraded mode",
			zap.String("path", cfg.CatalogDBPath), zap.Error(err))
		catalogSvc = services.NewDegradedCatalogService(logger)
	} else {
		defer db.Close()
		catalogSvc = services.NewCatalogService(sqlite.NewCatalogRepo(db), logger)
	}

	router := newRouter(catalogSvc, logger)

	logger.Info("Catalog Service listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
