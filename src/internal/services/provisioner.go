package services

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/moviesclub/moviesclub/src/internal/domain"
	"github.com/moviesclub/moviesclub/src/internal/ports"
)

// TenantProvisioner creates one isolated store per account and records it in
// the tenant registry. Provisioning is meant to run exactly once, right after
// the account insert, but every step tolerates re-invocation: schema
// declaration is idempotent and re-registration is a no-op.
type TenantProvisioner struct {
	registry ports.TenantRegistry
	opener   ports.TenantStoreOpener
	dataDir  string
	log      *zap.Logger
}

func NewTenantProvisioner(registry ports.TenantRegistry, opener ports.TenantStoreOpener, dataDir string, log *zap.Logger) *TenantProvisioner {
	return &TenantProvisioner{
		registry: registry,
		opener:   opener,
		dataDir:  dataDir,
		log:      log,
	}
}

// Provision creates the tenant store and registers its locator. The username
// is validated again here: the charset gate has to hold on every path that
// derives a storage location, not just on the one that happens to call it.
func (p *TenantProvisioner) Provision(ctx context.Context, accountID int64, username string) error {
	if err := domain.ValidateUsername(username); err != nil {
		return &domain.ProvisioningError{Username: username, Err: err}
	}

	locator := filepath.Join(p.dataDir, username+".db")

	store, err := p.opener.Open(locator)
	if err != nil {
		return &domain.ProvisioningError{Username: username, Err: err}
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		return &domain.ProvisioningError{Username: username, Err: err}
	}

	// Register last, so the registry never points at an uninitialized store.
	if err := p.registry.Register(ctx, accountID, username, locator); err != nil {
		return &domain.ProvisioningError{Username: username, Err: err}
	}

	p.log.Info("tenant store provisioned",
		zap.String("username", username),
		zap.String("locator", locator))
	return nil
}
