package main

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/moviesclub/moviesclub/src/internal/adapters/hash"
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

	logger.Info("starting moviesclub Account Service")

	cfg := config.AccountServiceConfig{
		Port:           "4000",
		AccountsDBPath: "accounts.db",
		TenantDataDir:  "users",
		BcryptCost:     10,
	}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := config.Load(path, &cfg); err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if path := os.Getenv("ACCOUNTS_DB_PATH"); path != "" {
		cfg.AccountsDBPath = path
	}
	if dir := os.Getenv("TENANT_DATA_DIR"); dir != "" {
		cfg.TenantDataDir = dir
	}

	// The accounts handle is shared for the process lifetime; sqlite
	// serializes the writes.
	db, err := sqlite.Open(cfg.AccountsDBPath)
	if err != nil {
		logger.Fatal("failed to open accounts database", zap.Error(err))
	}
	defer db.Close()

	accountRepo := sqlite.NewAccountRepo(db)
	if err := accountRepo.InitSchema(); err != nil {
		logger.Fatal("failed to init accounts schema", zap.Error(err))
	}

	registry := sqlite.NewTenantRegistry(db)
	if err := registry.InitSchema(); err != nil {
		logger.Fatal("failed to init tenant registry schema", zap.Error(err))
	}

	opener := sqlite.NewTenantOpener()
	provisioner := services.NewTenantProvisioner(registry, opener, cfg.TenantDataDir, logger)
	hasher := hash.NewBcryptHasher(cfg.BcryptCost)

	accountSvc := services.NewAccountService(accountRepo, hasher, provisioner, logger)
	ratingSvc := services.NewRatingService(registry, opener, logger)

	router := newRouter(accountSvc, ratingSvc, logger)

	logger.Info("Account Service listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
