package repositories

import (
	"context"
	"time"

	"hypeshelf/internal/database"
	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]ActivityLog, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type activityLogRepository struct {
	db  database.DB
	log logger.Logger
}

func NewActivityLogRepository(db database.DB) ActivityLogRepository {
	return &activityLogRepository{
		db:  db,
		log: logger.New("activityLogRepository"),
	}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *ActivityLog) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(entry).Error; err != nil {
		return log.Err("failed to create activity log entry", err, "action", entry.Action)
	}

	return nil
}

func (r *activityLogRepository) ListRecent(
	ctx context.Context,
	limit int,
) ([]ActivityLog, error) {
	log := r.log.Function("ListRecent")

	var entries []ActivityLog
	if err := r.db.SQLWithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, log.Err("failed to list activity log entries", err)
	}

	return entries, nil
}

func (r *activityLogRepository) PruneOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	log := r.log.Function("PruneOlderThan")

	result := r.db.SQLWithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&ActivityLog{})
	if result.Error != nil {
		return 0, log.Err("failed to prune activity log", result.Error, "cutoff", cutoff)
	}

	return result.RowsAffected, nil
}
