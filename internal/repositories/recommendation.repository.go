package repositories

import (
	"context"
	"errors"

	"hypeshelf/internal/constants"
	"hypeshelf/internal/database"
	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetByID and Delete take an explicit handle so callers can run them
// inside a transaction; pass db.SQL for standalone use.
type RecommendationRepository interface {
	Create(ctx context.Context, rec *Recommendation) error
	GetByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Recommendation, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error
	ToggleStaffPick(ctx context.Context, id uuid.UUID) (*Recommendation, error)
	List(ctx context.Context, genre string) ([]Recommendation, error)
	RefreshFeedCache(ctx context.Context) error
	InvalidateFeedCache(ctx context.Context)
}

type recommendationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewRecommendationRepository(db database.DB) RecommendationRepository {
	return &recommendationRepository{
		db:  db,
		log: logger.New("recommendationRepository"),
	}
}

func (r *recommendationRepository) Create(ctx context.Context, rec *Recommendation) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(rec).Error; err != nil {
		return log.Err("failed to create recommendation", err, "title", rec.Title)
	}

	r.InvalidateFeedCache(ctx)
	return nil
}

func (r *recommendationRepository) GetByID(
	ctx context.Context,
	db *gorm.DB,
	id uuid.UUID,
) (*Recommendation, error) {
	log := r.log.Function("GetByID")

	var rec Recommendation
	if err := db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get recommendation", err, "id", id)
	}

	return &rec, nil
}

// Delete does not touch the feed cache. Callers running inside a
// transaction must call InvalidateFeedCache after committing; an
// invalidation before commit lets a concurrent read re-cache the row.
func (r *recommendationRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := db.WithContext(ctx).Delete(&Recommendation{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete recommendation", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ToggleStaffPick flips the staff pick flag in a single statement so
// concurrent toggles never lose an update, then returns the current row.
func (r *recommendationRepository) ToggleStaffPick(
	ctx context.Context,
	id uuid.UUID,
) (*Recommendation, error) {
	log := r.log.Function("ToggleStaffPick")

	result := r.db.SQLWithContext(ctx).
		Model(&Recommendation{}).
		Where("id = ?", id).
		Update("is_staff_pick", gorm.Expr("NOT is_staff_pick"))
	if result.Error != nil {
		return nil, log.Err("failed to toggle staff pick", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	r.InvalidateFeedCache(ctx)
	return r.GetByID(ctx, r.db.SQL, id)
}

// List returns the feed, newest first. The unfiltered feed is served
// from cache when fresh; genre-filtered reads always hit the database.
func (r *recommendationRepository) List(
	ctx context.Context,
	genre string,
) ([]Recommendation, error) {
	log := r.log.Function("List")

	filtered := genre != "" && genre != constants.GenreFilterAll
	if !filtered {
		var cached []Recommendation
		found, err := database.NewCacheBuilder(r.db.Cache.Feed, constants.FeedCacheKey).
			WithContext(ctx).
			Get(&cached)
		if err != nil {
			log.Warn("failed to read feed cache", "error", err)
		} else if found {
			return cached, nil
		}
	}

	query := r.db.SQLWithContext(ctx).Model(&Recommendation{})
	if filtered {
		query = query.Where("genre = ?", genre)
	}

	var recs []Recommendation
	if err := query.Order("created_at DESC, id DESC").Find(&recs).Error; err != nil {
		return nil, log.Err("failed to list recommendations", err, "genre", genre)
	}

	if !filtered {
		r.cacheFeed(ctx, recs)
	}

	return recs, nil
}

// RefreshFeedCache rebuilds the unfiltered feed snapshot from the
// database. Used by the warm job so cold cache windows stay short.
func (r *recommendationRepository) RefreshFeedCache(ctx context.Context) error {
	log := r.log.Function("RefreshFeedCache")

	var recs []Recommendation
	if err := r.db.SQLWithContext(ctx).
		Model(&Recommendation{}).
		Order("created_at DESC, id DESC").
		Find(&recs).Error; err != nil {
		return log.Err("failed to load feed for cache refresh", err)
	}

	r.cacheFeed(ctx, recs)
	return nil
}

func (r *recommendationRepository) cacheFeed(ctx context.Context, recs []Recommendation) {
	if err := database.NewCacheBuilder(r.db.Cache.Feed, constants.FeedCacheKey).
		WithStruct(recs).
		WithTTL(constants.FeedCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("cacheFeed").Warn("failed to cache feed", "error", err)
	}
}

// InvalidateFeedCache drops the unfiltered feed snapshot. Best-effort;
// the cache entry expires on its own TTL if the delete fails.
func (r *recommendationRepository) InvalidateFeedCache(ctx context.Context) {
	if err := database.NewCacheBuilder(r.db.Cache.Feed, constants.FeedCacheKey).
		WithContext(ctx).
		Delete(); err != nil {
		r.log.Function("InvalidateFeedCache").
			Warn("failed to invalidate feed cache", "error", err)
	}
}
