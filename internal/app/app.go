package app

import (
	"context"

	"hypeshelf/config"
	"hypeshelf/internal/controllers"
	"hypeshelf/internal/database"
	"hypeshelf/internal/events"
	"hypeshelf/internal/handlers/middleware"
	"hypeshelf/internal/jobs"
	"hypeshelf/internal/logger"
	"hypeshelf/internal/repositories"
	"hypeshelf/internal/services"
	"hypeshelf/internal/websockets"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Services     services.Service
	Repositories repositories.Repository
	Controllers  controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	svcs, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to initialize services", err)
	}

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, config, repos, svcs.Clerk)
	ctrls := controllers.New(svcs, repos, eventBus)

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(svcs.Scheduler, repos); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}
		if err := svcs.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:     db,
		Config:       config,
		Middleware:   middleware,
		Websocket:    websocket,
		EventBus:     eventBus,
		Services:     svcs,
		Repositories: repos,
		Controllers:  ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Clerk,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Repositories.User,
		a.Repositories.Recommendation,
		a.Repositories.Activity,
		a.Controllers.User,
		a.Controllers.Recommendation,
		a.Controllers.Admin,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Clerk != nil {
		if closeErr := a.Services.Clerk.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
