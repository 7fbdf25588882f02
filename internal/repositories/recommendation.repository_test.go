package repositories

import (
	"context"
	"testing"
	"time"

	"hypeshelf/internal/database"
	. "hypeshelf/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// The table is created by hand because the production schema declares a
// Postgres uuidv7() column default that sqlite cannot parse.
const recommendationsTestDDL = `
CREATE TABLE recommendations (
	id            text PRIMARY KEY,
	created_at    datetime,
	updated_at    datetime,
	title         text NOT NULL,
	genre         text NOT NULL,
	link          text,
	blurb         text,
	user_id       text NOT NULL,
	author_name   text,
	is_staff_pick numeric NOT NULL DEFAULT 0
)`

func newTestRecommendationRepo(t *testing.T) (RecommendationRepository, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.Exec(recommendationsTestDDL).Error)

	return NewRecommendationRepository(database.DB{SQL: gdb}), gdb
}

func seedRecommendation(
	t *testing.T,
	gdb *gorm.DB,
	id uuid.UUID,
	createdAt time.Time,
	genre string,
) {
	t.Helper()

	rec := &Recommendation{
		Title:        "rec " + id.String(),
		Genre:        genre,
		OwnerSubject: "user_123",
		AuthorName:   "Seeder",
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	require.NoError(t, gdb.Create(rec).Error)
}

func TestList_OrdersByCreatedAtDescThenIDDesc(t *testing.T) {
	repo, gdb := newTestRecommendationRepo(t)

	tied := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	newest := tied.Add(time.Hour)

	idTiedLow := uuid.MustParse("00000000-0000-7000-8000-000000000001")
	idTiedHigh := uuid.MustParse("00000000-0000-7000-8000-000000000002")
	idNewest := uuid.MustParse("00000000-0000-7000-8000-000000000003")

	// Inserted out of order on purpose; only the ORDER BY may decide.
	seedRecommendation(t, gdb, idTiedLow, tied, "Books")
	seedRecommendation(t, gdb, idNewest, newest, "Books")
	seedRecommendation(t, gdb, idTiedHigh, tied, "Books")

	recs, err := repo.List(context.Background(), "Books")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, idNewest, recs[0].ID)
	assert.Equal(t, idTiedHigh, recs[1].ID, "equal timestamps break ties by id desc")
	assert.Equal(t, idTiedLow, recs[2].ID)
}

func TestList_GenreFilterExcludesOtherGenres(t *testing.T) {
	repo, gdb := newTestRecommendationRepo(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	bookID := uuid.MustParse("00000000-0000-7000-8000-000000000010")
	gameID := uuid.MustParse("00000000-0000-7000-8000-000000000011")

	seedRecommendation(t, gdb, bookID, base, "Books")
	seedRecommendation(t, gdb, gameID, base.Add(time.Minute), "Games")

	recs, err := repo.List(context.Background(), "Books")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, bookID, recs[0].ID)
}

func TestDelete_WithExplicitHandle(t *testing.T) {
	repo, gdb := newTestRecommendationRepo(t)

	id := uuid.MustParse("00000000-0000-7000-8000-000000000020")
	seedRecommendation(t, gdb, id, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), "Books")

	require.NoError(t, repo.Delete(context.Background(), gdb, id))

	_, err := repo.GetByID(context.Background(), gdb, id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(context.Background(), gdb, id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
