package jobs

import (
	"context"
	"time"

	"hypeshelf/internal/constants"
	"hypeshelf/internal/logger"
	"hypeshelf/internal/repositories"
	"hypeshelf/internal/services"
)

// ActivityPruneJob deletes activity log entries past the retention
// window so the table does not grow without bound.
type ActivityPruneJob struct {
	repo     repositories.ActivityLogRepository
	log      logger.Logger
	schedule services.Schedule
}

func NewActivityPruneJob(
	repo repositories.ActivityLogRepository,
	schedule services.Schedule,
) *ActivityPruneJob {
	return &ActivityPruneJob{
		repo:     repo,
		log:      logger.New("activityPruneJob"),
		schedule: schedule,
	}
}

func (j *ActivityPruneJob) Name() string {
	return "ActivityLogPrune"
}

func (j *ActivityPruneJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cutoff := time.Now().Add(-constants.ActivityRetention)
	pruned, err := j.repo.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return log.Err("activity log prune failed", err)
	}

	log.Info("Activity log pruned", "removed", pruned, "cutoff", cutoff)
	return nil
}

func (j *ActivityPruneJob) Schedule() services.Schedule {
	return j.schedule
}
