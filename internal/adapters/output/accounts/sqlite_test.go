package accounts

import (
	"context"
	"path/filepath"
	"testing"

	"cad-ui-bridge/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "accounts.db")
	repo, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func TestSQLiteRepository_CRUD(t *testing.T) {
	repo, _ := openTemp(t)
	ctx := context.Background()

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	a := model.Account{ID: "a", ServerName: "one", RestAPI: "https://one/api", Email: "x@one", Token: "t1"}
	b := model.Account{ID: "b", ServerName: "two", RestAPI: "https://two/api", Email: "x@two", Token: "t2"}
	require.NoError(t, repo.Upsert(ctx, a))
	require.NoError(t, repo.Upsert(ctx, b))

	a.Token = "rotated"
	require.NoError(t, repo.Upsert(ctx, a))

	all, err = repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "rotated", all[0].Token)

	require.NoError(t, repo.SetDefault(ctx, "b"))
	all, err = repo.All(ctx)
	require.NoError(t, err)
	assert.False(t, all[0].IsDefault)
	assert.True(t, all[1].IsDefault)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), ErrNotFound)
	assert.ErrorIs(t, repo.SetDefault(ctx, "missing"), ErrNotFound)

	all, err = repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsDefault, "failed SetDefault must not clear the current default")
}

func TestSQLiteRepository_RequiresID(t *testing.T) {
	repo, _ := openTemp(t)
	assert.Error(t, repo.Upsert(context.Background(), model.Account{Email: "x"}))
}

func TestSQLiteRepository_Reopen(t *testing.T) {
	repo, path := openTemp(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, model.Account{ID: "a", ServerName: "s", RestAPI: "r", Email: "e", Token: "t"}))
	require.NoError(t, repo.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	all, err := again.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].ID)
}
