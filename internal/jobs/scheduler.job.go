package jobs

import (
	"hypeshelf/internal/logger"
	"hypeshelf/internal/repositories"
	"hypeshelf/internal/services"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	feedCacheWarmJob := NewFeedCacheWarmJob(repos.Recommendation, Hourly)
	if err := schedulerService.AddJob(feedCacheWarmJob); err != nil {
		return log.Err("failed to register feed cache warm job", err)
	}

	activityPruneJob := NewActivityPruneJob(repos.Activity, Daily)
	if err := schedulerService.AddJob(activityPruneJob); err != nil {
		return log.Err("failed to register activity prune job", err)
	}

	log.Info("Jobs registered", "count", schedulerService.GetJobCount())
	return nil
}
