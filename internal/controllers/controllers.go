package controllers

import (
	"hypeshelf/internal/events"
	"hypeshelf/internal/repositories"
	"hypeshelf/internal/services"

	adminController "hypeshelf/internal/controllers/admin"
	recommendationController "hypeshelf/internal/controllers/recommendations"
	userController "hypeshelf/internal/controllers/users"
)

type Controllers struct {
	User           userController.UserControllerInterface
	Recommendation recommendationController.RecommendationControllerInterface
	Admin          adminController.AdminControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
) Controllers {
	return Controllers{
		User:           userController.New(repos),
		Recommendation: recommendationController.New(repos, services, eventBus),
		Admin:          adminController.New(repos),
	}
}
