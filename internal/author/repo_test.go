package author

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

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

func TestListOrdersByFamilyName(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	for _, name := range []string{"Zelazny", "Asimov", "le Guin"} {
		_, err := repo.Insert(ctx, models.Author{FamilyName: name})
		require.NoError(t, err)
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// ordinal compare: uppercase sorts before lowercase
	assert.Equal(t, "Asimov", got[0].FamilyName)
	assert.Equal(t, "Zelazny", got[1].FamilyName)
	assert.Equal(t, "le Guin", got[2].FamilyName)
}

func TestGetByIDRoundTrip(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	birth := time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC)
	saved, err := repo.Insert(ctx, models.Author{
		FirstName:   "Isaac",
		FamilyName:  "Asimov",
		DateOfBirth: &birth,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Isaac", got.FirstName)
	assert.Equal(t, "Asimov", got.FamilyName)
	require.NotNil(t, got.DateOfBirth)
	assert.True(t, got.DateOfBirth.Equal(birth))
	assert.Nil(t, got.DateOfDeath)
}

func TestGetByIDMissing(t *testing.T) {
	repo := NewRepo(testDB(t))

	got, err := repo.GetByID(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReplaceByIDIsFullReplace(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	birth := time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC)
	saved, err := repo.Insert(ctx, models.Author{FamilyName: "Asimov", DateOfBirth: &birth})
	require.NoError(t, err)

	// candidate without dates clears them, it does not keep the old ones
	_, err = repo.ReplaceByID(ctx, saved.ID, models.Author{FirstName: "Isaac", FamilyName: "Asimov"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Isaac", got.FirstName)
	assert.Nil(t, got.DateOfBirth)
}

func TestReplaceByIDMissing(t *testing.T) {
	repo := NewRepo(testDB(t))

	_, err := repo.ReplaceByID(context.Background(), "no-such-id", models.Author{FamilyName: "X"})
	assert.Error(t, err)
}

func TestDeleteByID(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	saved, err := repo.Insert(ctx, models.Author{FamilyName: "Asimov"})
	require.NoError(t, err)

	ok, err := repo.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
