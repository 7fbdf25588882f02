package repositories

import (
	"context"
	"errors"

	"hypeshelf/internal/constants"
	"hypeshelf/internal/database"
	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetBySubject(ctx context.Context, subject string) (*User, error)
	FindOrCreate(ctx context.Context, identity Identity) (*User, bool, error)
	CountUsers(ctx context.Context) (int64, error)
	ClearCacheBySubject(ctx context.Context, subject string) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*User, error) {
	log := r.log.Function("GetBySubject")

	var user User
	if found := r.getCacheBySubject(ctx, subject, &user); found {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "user_id = ?", subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get user by subject", err, "subject", subject)
	}

	if err := r.addToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "subject", subject, "error", err)
	}

	return &user, nil
}

// FindOrCreate returns the user for the identity, creating it on first
// sight. The very first user ever created becomes the admin; a partial
// unique index on role guarantees at most one row wins that slot even
// under concurrent signups, and the loser is retried as a regular user.
// The unique index on user_id makes concurrent creates of the same
// identity collapse to a single row.
func (r *userRepository) FindOrCreate(
	ctx context.Context,
	identity Identity,
) (*User, bool, error) {
	log := r.log.Function("FindOrCreate")

	existing, err := r.GetBySubject(ctx, identity.Subject)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	role := RoleUser
	count, err := r.CountUsers(ctx)
	if err != nil {
		return nil, false, err
	}
	if count == 0 {
		role = RoleAdmin
	}

	user := NewUserFromIdentity(identity, role)
	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, log.Err("failed to create user", err, "subject", identity.Subject)
		}

		// Another request created this identity first.
		if u, fetchErr := r.GetBySubject(ctx, identity.Subject); fetchErr == nil {
			return u, false, nil
		}

		// The collision was on the admin slot, not the identity. Retry
		// as a regular user.
		if role != RoleAdmin {
			return nil, false, log.Err("failed to create user", err, "subject", identity.Subject)
		}
		log.Info("admin slot already taken, creating as regular user",
			"subject", identity.Subject)
		user = NewUserFromIdentity(identity, RoleUser)
		if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if u, fetchErr := r.GetBySubject(ctx, identity.Subject); fetchErr == nil {
					return u, false, nil
				}
			}
			return nil, false, log.Err("failed to create user", err, "subject", identity.Subject)
		}
	}

	if err := r.addToCache(ctx, user); err != nil {
		log.Warn("failed to add user to cache", "subject", user.Subject, "error", err)
	}

	log.Info("user created", "subject", user.Subject, "role", user.Role)
	return user, true, nil
}

func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	log := r.log.Function("CountUsers")

	var count int64
	if err := r.db.SQLWithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count users", err)
	}

	return count, nil
}

func (r *userRepository) ClearCacheBySubject(ctx context.Context, subject string) error {
	cacheKey := constants.UserCachePrefix + subject
	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithContext(ctx).
		Delete(); err != nil {
		return r.log.Function("ClearCacheBySubject").
			Err("failed to clear user cache", err, "subject", subject)
	}
	return nil
}

func (r *userRepository) getCacheBySubject(
	ctx context.Context,
	subject string,
	user *User,
) bool {
	cacheKey := constants.UserCachePrefix + subject
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithContext(ctx).
		Get(user)
	if err != nil {
		r.log.Function("getCacheBySubject").
			Warn("failed to get user from cache", "subject", subject, "error", err)
		return false
	}
	return found
}

func (r *userRepository) addToCache(ctx context.Context, user *User) error {
	cacheKey := constants.UserCachePrefix + user.Subject
	return database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set()
}
