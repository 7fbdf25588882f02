package adminController

import (
	"context"

	"hypeshelf/internal/apperrors"
	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"
	"hypeshelf/internal/repositories"
)

const (
	defaultActivityLimit = 100
	maxActivityLimit     = 500
)

type AdminController struct {
	activityRepo repositories.ActivityLogRepository
	log          logger.Logger
}

type AdminControllerInterface interface {
	ListActivity(ctx context.Context, user *User, limit int) ([]ActivityLog, error)
}

func New(repos repositories.Repository) AdminControllerInterface {
	return &AdminController{
		activityRepo: repos.Activity,
		log:          logger.New("adminController"),
	}
}

// ListActivity returns the most recent audit entries, newest first.
// Admin only.
func (ac *AdminController) ListActivity(
	ctx context.Context,
	user *User,
	limit int,
) ([]ActivityLog, error) {
	log := ac.log.Function("ListActivity")

	if user == nil {
		return nil, apperrors.AuthRequired()
	}
	if !user.IsAdmin() {
		return nil, apperrors.PermissionDenied()
	}

	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	entries, err := ac.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, log.Err("failed to list activity", err)
	}

	return entries, nil
}
