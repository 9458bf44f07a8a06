package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteTaxiRepository {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "skyroute.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func repositories(t *testing.T) map[string]TaxiRepository {
	t.Helper()
	repos := map[string]TaxiRepository{
		"sqlite": openTestSQLite(t),
	}
	if testPool != nil {
		repos["postgres"] = NewPostgresTaxiRepository(setupTestDB(t))
	}
	return repos
}

func TestTaxiRepository_LoadMissing(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := repo.LoadTaxi(context.Background(), 404)
			require.NoError(t, err)
			assert.Nil(t, rec)
		})
	}
}

func TestTaxiRepository_SaveLoadOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			mask := make([]byte, 162)
			mask[0] = 0x02
			mask[161] = 0x80

			require.NoError(t, repo.SaveTaxi(ctx, 7, TaxiRecord{KnownMask: mask, Route: "2 4 6", Benchmark: true}))

			rec, err := repo.LoadTaxi(ctx, 7)
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, mask, rec.KnownMask)
			assert.Equal(t, "2 4 6", rec.Route)
			assert.True(t, rec.Benchmark)

			mask[1] = 0xFF
			require.NoError(t, repo.SaveTaxi(ctx, 7, TaxiRecord{KnownMask: mask}))

			rec, err = repo.LoadTaxi(ctx, 7)
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, byte(0xFF), rec.KnownMask[1])
			assert.Empty(t, rec.Route)
			assert.False(t, rec.Benchmark)
		})
	}
}

func TestOpenSQLite_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "skyroute.db")

	repo, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, repo.SaveTaxi(ctx, 1, TaxiRecord{KnownMask: []byte{1}, Route: "7 26"}))
	require.NoError(t, repo.Close())

	repo, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer repo.Close()

	rec, err := repo.LoadTaxi(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "7 26", rec.Route)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "")
	assert.Error(t, err)
}
