package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/moviesclub/moviesclub/src/internal/domain"
	"github.com/moviesclub/moviesclub/src/internal/ports"
)

// AccountService owns registration, login and the availability check.
type AccountService struct {
	accounts    ports.AccountRepository
	hasher      ports.PasswordHasher
	provisioner *TenantProvisioner
	log         *zap.Logger
}

func NewAccountService(accounts ports.AccountRepository, hasher ports.PasswordHasher, provisioner *TenantProvisioner, log *zap.Logger) *AccountService {
	return &AccountService{
		accounts:    accounts,
		hasher:      hasher,
		provisioner: provisioner,
		log:         log,
	}
}

// Register runs the full chain: validate, hash, insert, provision. Each step
// short-circuits on failure. Validation runs before any storage access.
//
// Account insert and tenant provisioning are not atomic. If provisioning
// fails the account row stays committed; we log it loudly and return a
// *domain.ProvisioningError so the caller can tell this apart from ordinary
// request failures. The tenant registry makes the orphan detectable later
// (account row with no tenant row).
func (s *AccountService) Register(ctx context.Context, username, email, password string) (int64, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return 0, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	accountID, err := s.accounts.Create(ctx, username, email, passwordHash)
	if err != nil {
		return 0, err
	}

	if err := s.provisioner.Provision(ctx, accountID, username); err != nil {
		s.log.Error("critical inconsistency: account committed but tenant provisioning failed",
			zap.Int64("account_id", accountID),
			zap.String("username", username),
			zap.Error(err))
		return 0, err
	}

	s.log.Info("account registered",
		zap.Int64("account_id", accountID),
		zap.String("username", username))
	return accountID, nil
}

// Login verifies credentials and returns the identity payload. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(acc.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Identity{
		AccountID: acc.ID,
		Username:  acc.Username,
		Email:     acc.Email,
	}, nil
}

// UsernameAvailable is a pure read. Unlike login, this endpoint leaks
// existence on purpose: the signup form polls it for live validation.
func (s *AccountService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	return s.accounts.UsernameAvailable(ctx, username)
}
