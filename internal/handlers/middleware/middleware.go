package middleware

import (
	"hypeshelf/config"
	"hypeshelf/internal/database"
	"hypeshelf/internal/logger"
	"hypeshelf/internal/repositories"
	"hypeshelf/internal/services"
)

type Middleware struct {
	DB           database.DB
	userRepo     repositories.UserRepository
	clerkService *services.ClerkService
	Config       config.Config
	log          logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	clerkService *services.ClerkService,
) Middleware {
	return Middleware{
		DB:           db,
		userRepo:     repos.User,
		clerkService: clerkService,
		Config:       config,
		log:          logger.New("middleware"),
	}
}
