package userController

import (
	"context"
	"errors"

	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"
	"hypeshelf/internal/repositories"

	"gorm.io/gorm"
)

type UserController struct {
	userRepo repositories.UserRepository
	log      logger.Logger
}

type UserControllerInterface interface {
	GetOrCreate(ctx context.Context, identity Identity) (*User, bool, error)
	GetCurrent(ctx context.Context, subject string) (*User, error)
	IsAdmin(ctx context.Context, subject string) (bool, error)
}

func New(repos repositories.Repository) UserControllerInterface {
	return &UserController{
		userRepo: repos.User,
		log:      logger.New("userController"),
	}
}

// GetOrCreate provisions a user for the verified identity, or returns
// the existing one. The bool reports whether a new row was created.
func (uc *UserController) GetOrCreate(
	ctx context.Context,
	identity Identity,
) (*User, bool, error) {
	log := uc.log.Function("GetOrCreate")

	user, created, err := uc.userRepo.FindOrCreate(ctx, identity)
	if err != nil {
		return nil, false, log.Err("failed to find or create user", err,
			"subject", identity.Subject)
	}

	return user, created, nil
}

// GetCurrent returns the provisioned user for the subject, or nil when
// the identity has never been provisioned.
func (uc *UserController) GetCurrent(ctx context.Context, subject string) (*User, error) {
	user, err := uc.userRepo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// IsAdmin reports whether the subject maps to an admin user. Unknown
// subjects are not admins.
func (uc *UserController) IsAdmin(ctx context.Context, subject string) (bool, error) {
	user, err := uc.GetCurrent(ctx, subject)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsAdmin(), nil
}
