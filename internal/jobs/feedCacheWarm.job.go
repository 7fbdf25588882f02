package jobs

import (
	"context"

	"hypeshelf/internal/logger"
	"hypeshelf/internal/repositories"
	"hypeshelf/internal/services"
)

type FeedCacheWarmJob struct {
	repo     repositories.RecommendationRepository
	log      logger.Logger
	schedule services.Schedule
}

func NewFeedCacheWarmJob(
	repo repositories.RecommendationRepository,
	schedule services.Schedule,
) *FeedCacheWarmJob {
	return &FeedCacheWarmJob{
		repo:     repo,
		log:      logger.New("feedCacheWarmJob"),
		schedule: schedule,
	}
}

func (j *FeedCacheWarmJob) Name() string {
	return "FeedCacheWarm"
}

func (j *FeedCacheWarmJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if err := j.repo.RefreshFeedCache(ctx); err != nil {
		return log.Err("feed cache warm failed", err)
	}

	log.Info("Feed cache warmed")
	return nil
}

func (j *FeedCacheWarmJob) Schedule() services.Schedule {
	return j.schedule
}
