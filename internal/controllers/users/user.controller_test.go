package userController

import (
	"context"
	"testing"

	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"
	"hypeshelf/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeUserRepo implements UserRepository in memory with the same
// first-user-is-admin bootstrap rule as the real repository.
type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (f *fakeUserRepo) GetBySubject(ctx context.Context, subject string) (*User, error) {
	user, ok := f.users[subject]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindOrCreate(
	ctx context.Context,
	identity Identity,
) (*User, bool, error) {
	if existing, ok := f.users[identity.Subject]; ok {
		return existing, false, nil
	}

	role := RoleUser
	if len(f.users) == 0 {
		role = RoleAdmin
	}

	user := NewUserFromIdentity(identity, role)
	f.users[identity.Subject] = user
	return user, true, nil
}

func (f *fakeUserRepo) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) ClearCacheBySubject(ctx context.Context, subject string) error {
	return nil
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func newTestController(repo repositories.UserRepository) *UserController {
	return &UserController{
		userRepo: repo,
		log:      logger.New("userControllerTest"),
	}
}

func TestGetOrCreate_FirstUserBecomesAdmin(t *testing.T) {
	uc := newTestController(newFakeUserRepo())
	ctx := context.Background()

	first, created, err := uc.GetOrCreate(ctx, Identity{
		Subject: "sub_1", Name: "First", Email: "first@example.com",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, RoleAdmin, first.Role)

	second, created, err := uc.GetOrCreate(ctx, Identity{
		Subject: "sub_2", Name: "Second",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, RoleUser, second.Role)
}

func TestGetOrCreate_IsIdempotentPerSubject(t *testing.T) {
	uc := newTestController(newFakeUserRepo())
	ctx := context.Background()

	first, created, err := uc.GetOrCreate(ctx, Identity{Subject: "sub_1", Name: "First"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := uc.GetOrCreate(ctx, Identity{Subject: "sub_1", Name: "Renamed"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Subject, again.Subject)
	assert.Equal(t, "First", again.Name)
}

func TestGetCurrent_UnknownSubjectIsNil(t *testing.T) {
	uc := newTestController(newFakeUserRepo())

	user, err := uc.GetCurrent(context.Background(), "sub_unknown")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestIsAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestController(repo)
	ctx := context.Background()

	// Unknown subjects are never admins
	isAdmin, err := uc.IsAdmin(ctx, "sub_unknown")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	_, _, err = uc.GetOrCreate(ctx, Identity{Subject: "sub_admin", Name: "Admin"})
	require.NoError(t, err)
	_, _, err = uc.GetOrCreate(ctx, Identity{Subject: "sub_user", Name: "Regular"})
	require.NoError(t, err)

	isAdmin, err = uc.IsAdmin(ctx, "sub_admin")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = uc.IsAdmin(ctx, "sub_user")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
