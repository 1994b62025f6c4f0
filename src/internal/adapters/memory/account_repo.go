package memory

import (
	"context"
	"sync"
	"time"

	"github.com/moviesclub/moviesclub/src/internal/domain"
)

type InMemoryAccountRepo struct {
	mu         sync.RWMutex
	byUsername map[string]*domain.Account
	byEmail    map[string]*domain.Account
	nextID     int64
}

func NewAccountRepo() *InMemoryAccountRepo {
	return &InMemoryAccountRepo{
		byUsername: make(map[string]*domain.Account),
		byEmail:    make(map[string]*domain.Account),
		nextID:     1,
	}
}

func (r *InMemoryAccountRepo) Create(ctx context.Context, username, email, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Username first, matching the attribution order of the real insert.
	if _, exists := r.byUsername[username]; exists {
		return 0, &domain.ConflictError{Field: domain.ConflictUsername}
	}
	if _, exists := r.byEmail[email]; exists {
		return 0, &domain.ConflictError{Field: domain.ConflictEmail}
	}

	acc := &domain.Account{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.nextID++
	r.byUsername[username] = acc
	r.byEmail[email] = acc
	return acc.ID, nil
}

func (r *InMemoryAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *acc
	return &copied, nil
}

func (r *InMemoryAccountRepo) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byUsername[username]
	return !exists, nil
}
