package repositories

import (
	"hypeshelf/internal/database"
)

type Repository struct {
	User           UserRepository
	Recommendation RecommendationRepository
	Activity       ActivityLogRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:           NewUserRepository(db),
		Recommendation: NewRecommendationRepository(db),
		Activity:       NewActivityLogRepository(db),
	}
}
