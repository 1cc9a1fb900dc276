package storage_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcrawl/zcrawl/internal/domain"
	"github.com/zcrawl/zcrawl/internal/storage"
)

func newTestRepository(t *testing.T) *storage.ProgressRepository {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo, err := storage.NewProgressRepository(db)
	require.NoError(t, err)
	return repo
}

func TestProgressGetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "bong_da")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProgressUpsertAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	year := 2024
	p := &domain.CrawlProgress{
		RunID:      "run-1",
		Category:   "bong_da",
		TargetYear: &year,
		MaxItems:   50,
	}
	p.MarkProcessed(0, "https://znews.vn/tran-dau-hom-qua-post123.html")
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.Get(ctx, "bong_da")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	require.NotNil(t, got.TargetYear)
	assert.Equal(t, 2024, *got.TargetYear)
	assert.Equal(t, 50, got.MaxItems)
	assert.Equal(t, 1, got.Cursor)
	assert.True(t, got.Seen("https://znews.vn/tran-dau-hom-qua-post123.html"))
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestProgressUpsertReplaces(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p := &domain.CrawlProgress{RunID: "run-1", Category: "bong_da"}
	require.NoError(t, repo.Upsert(ctx, p))

	p.RunID = "run-2"
	p.MarkProcessed(0, "https://znews.vn/a.html")
	p.MarkProcessed(1, "https://znews.vn/b.html")
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.Get(ctx, "bong_da")
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.RunID)
	assert.Equal(t, 2, got.Cursor)
	assert.Len(t, got.SeenURLs, 2)
	assert.Nil(t, got.TargetYear)
}

func TestProgressRowsPerCategory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.CrawlProgress{RunID: "r1", Category: "bong_da", Cursor: 3}))
	require.NoError(t, repo.Upsert(ctx, &domain.CrawlProgress{RunID: "r2", Category: "giao_duc", Cursor: 7}))

	bongDa, err := repo.Get(ctx, "bong_da")
	require.NoError(t, err)
	giaoDuc, err := repo.Get(ctx, "giao_duc")
	require.NoError(t, err)

	assert.Equal(t, 3, bongDa.Cursor)
	assert.Equal(t, 7, giaoDuc.Cursor)
}

func TestProgressDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.CrawlProgress{RunID: "r1", Category: "bong_da"}))
	require.NoError(t, repo.Delete(ctx, "bong_da"))

	_, err := repo.Get(ctx, "bong_da")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "bong_da"))
}
