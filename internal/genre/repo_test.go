package genre

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/pkg/database"
	"librarian/pkg/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestListOrdersByName(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	for _, name := range []string{"Poetry", "Fantasy", "Science Fiction"} {
		_, err := repo.Insert(ctx, models.Genre{Name: name})
		require.NoError(t, err)
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Fantasy", got[0].Name)
	assert.Equal(t, "Poetry", got[1].Name)
	assert.Equal(t, "Science Fiction", got[2].Name)
}

func TestGetByName(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	saved, err := repo.Insert(ctx, models.Genre{Name: "Fantasy"})
	require.NoError(t, err)

	got, err := repo.GetByName(ctx, "Fantasy")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)

	// exact match only
	got, err = repo.GetByName(ctx, "fantasy")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReplaceByID(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	saved, err := repo.Insert(ctx, models.Genre{Name: "Fantazy"})
	require.NoError(t, err)

	_, err = repo.ReplaceByID(ctx, saved.ID, models.Genre{Name: "Fantasy"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Fantasy", got.Name)
}
