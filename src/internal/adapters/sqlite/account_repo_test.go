package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moviesclub/moviesclub/src/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAccountRepo(t *testing.T) *SqliteAccountRepo {
	t.Helper()

	repo := NewAccountRepo(newTestDB(t))
	require.NoError(t, repo.InitSchema())
	return repo
}

func TestAccountRepoCreateAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestAccountRepo(t)

	id, err := repo.Create(ctx, "alice", "alice@x.com", "hash-1")
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	acc, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, id, acc.ID)
	require.Equal(t, "alice", acc.Username)
	require.Equal(t, "hash-1", acc.PasswordHash)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepoConflictFieldAttribution(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestAccountRepo(t)

	_, err := repo.Create(ctx, "alice", "alice@x.com", "h")
	require.NoError(t, err)

	// Same username, different email.
	_, err = repo.Create(ctx, "alice", "bob@x.com", "h")
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, domain.ConflictUsername, conflict.Field)

	// Same email, different username.
	_, err = repo.Create(ctx, "bob", "alice@x.com", "h")
	conflict = nil
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, domain.ConflictEmail, conflict.Field)
}

func TestAccountRepoUsernameAvailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestAccountRepo(t)

	available, err := repo.UsernameAvailable(ctx, "alice")
	require.NoError(t, err)
	require.True(t, available)

	_, err = repo.Create(ctx, "alice", "alice@x.com", "h")
	require.NoError(t, err)

	available, err = repo.UsernameAvailable(ctx, "alice")
	require.NoError(t, err)
	require.False(t, available)

	// The check is a pure read: asking must not create anything.
	available, err = repo.UsernameAvailable(ctx, "bob")
	require.NoError(t, err)
	require.True(t, available)
	available, err = repo.UsernameAvailable(ctx, "bob")
	require.NoError(t, err)
	require.True(t, available)
}
