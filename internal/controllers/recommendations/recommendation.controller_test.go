package recommendationController

import (
	"context"
	"strings"
	"testing"
	"time"

	"hypeshelf/internal/apperrors"
	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"
	"hypeshelf/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testUser(role Role) *User {
	return &User{
		Subject: "user_123",
		Name:    "Test User",
		Role:    role,
	}
}

func TestBuildRecommendation(t *testing.T) {
	user := testUser(RoleUser)

	testCases := []struct {
		name      string
		input     AddRecommendationInput
		wantErr   error
		wantField string
	}{
		{
			name: "valid full input",
			input: AddRecommendationInput{
				Title: "The Expanse",
				Genre: "Movies & TV",
				Link:  "https://example.com/expanse",
				Blurb: "Great hard sci-fi.",
			},
		},
		{
			name: "valid minimal input",
			input: AddRecommendationInput{
				Title: "Dune",
				Genre: "Books",
			},
		},
		{
			name: "empty title",
			input: AddRecommendationInput{
				Title: "",
				Genre: "Books",
			},
			wantErr:   apperrors.ErrInvalidTitle,
			wantField: "title",
		},
		{
			name: "whitespace only title",
			input: AddRecommendationInput{
				Title: "   \t  ",
				Genre: "Books",
			},
			wantErr:   apperrors.ErrInvalidTitle,
			wantField: "title",
		},
		{
			name: "title too long",
			input: AddRecommendationInput{
				Title: strings.Repeat("a", 201),
				Genre: "Books",
			},
			wantErr:   apperrors.ErrInvalidTitle,
			wantField: "title",
		},
		{
			name: "blurb too long",
			input: AddRecommendationInput{
				Title: "Dune",
				Genre: "Books",
				Blurb: strings.Repeat("b", 501),
			},
			wantErr:   apperrors.ErrInvalidBlurb,
			wantField: "blurb",
		},
		{
			name: "link with bad scheme",
			input: AddRecommendationInput{
				Title: "Dune",
				Genre: "Books",
				Link:  "ftp://example.com/dune",
			},
			wantErr:   apperrors.ErrInvalidLink,
			wantField: "link",
		},
		{
			name: "link without host",
			input: AddRecommendationInput{
				Title: "Dune",
				Genre: "Books",
				Link:  "https://",
			},
			wantErr:   apperrors.ErrInvalidLink,
			wantField: "link",
		},
		{
			name: "link too long",
			input: AddRecommendationInput{
				Title: "Dune",
				Genre: "Books",
				Link:  "https://example.com/" + strings.Repeat("x", 2048),
			},
			wantErr:   apperrors.ErrInvalidLink,
			wantField: "link",
		},
		{
			name: "unknown genre",
			input: AddRecommendationInput{
				Title: "Dune",
				Genre: "Poetry",
			},
			wantErr:   apperrors.ErrInvalidGenre,
			wantField: "genre",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := buildRecommendation(user, tc.input)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)

				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tc.wantField, appErr.Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.Subject, rec.OwnerSubject)
			assert.Equal(t, user.Name, rec.AuthorName)
			assert.False(t, rec.IsStaffPick)
		})
	}
}

func TestBuildRecommendation_SanitizesMarkup(t *testing.T) {
	user := testUser(RoleUser)

	rec, err := buildRecommendation(user, AddRecommendationInput{
		Title: "  <b>Dune</b><script>alert(1)</script>  ",
		Genre: "Books",
		Blurb: "<i>desert</i> planet",
	})

	require.NoError(t, err)
	assert.Equal(t, "Dune", rec.Title)
	assert.Equal(t, "desert planet", rec.Blurb)
}

// fakeRecommendationRepo implements RecommendationRepository in memory.
type fakeRecommendationRepo struct {
	recs          map[uuid.UUID]*Recommendation
	toggled       []uuid.UUID
	invalidations int
	onInvalidate  func()
}

func newFakeRecommendationRepo() *fakeRecommendationRepo {
	return &fakeRecommendationRepo{recs: make(map[uuid.UUID]*Recommendation)}
}

func (f *fakeRecommendationRepo) Create(ctx context.Context, rec *Recommendation) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	f.recs[rec.ID] = rec
	return nil
}

func (f *fakeRecommendationRepo) GetByID(
	ctx context.Context,
	db *gorm.DB,
	id uuid.UUID,
) (*Recommendation, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeRecommendationRepo) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	if _, ok := f.recs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.recs, id)
	return nil
}

func (f *fakeRecommendationRepo) ToggleStaffPick(
	ctx context.Context,
	id uuid.UUID,
) (*Recommendation, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	rec.IsStaffPick = !rec.IsStaffPick
	f.toggled = append(f.toggled, id)
	return rec, nil
}

func (f *fakeRecommendationRepo) List(
	ctx context.Context,
	genre string,
) ([]Recommendation, error) {
	var out []Recommendation
	for _, rec := range f.recs {
		if genre == "" || genre == "all" || rec.Genre == genre {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeRecommendationRepo) RefreshFeedCache(ctx context.Context) error {
	return nil
}

func (f *fakeRecommendationRepo) InvalidateFeedCache(ctx context.Context) {
	f.invalidations++
	if f.onInvalidate != nil {
		f.onInvalidate()
	}
}

var _ repositories.RecommendationRepository = (*fakeRecommendationRepo)(nil)

// fakeTransaction runs the closure directly and tracks whether it
// reached commit, so tests can observe ordering relative to the tx.
type fakeTransaction struct {
	committed bool
}

func (f *fakeTransaction) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) error {
	if err := fn(ctx, nil); err != nil {
		return err
	}
	f.committed = true
	return nil
}

func newTestController(repo repositories.RecommendationRepository) *RecommendationController {
	return &RecommendationController{
		recRepo:     repo,
		transaction: &fakeTransaction{},
		log:         logger.New("recommendationControllerTest"),
	}
}

func TestList_RejectsUnknownGenreFilter(t *testing.T) {
	rc := newTestController(newFakeRecommendationRepo())

	_, err := rc.List(context.Background(), "Poetry")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidGenre)
}

func TestList_AcceptsAllAndEmptyFilters(t *testing.T) {
	repo := newFakeRecommendationRepo()
	require.NoError(t, repo.Create(context.Background(), &Recommendation{
		Title: "Dune", Genre: "Books", OwnerSubject: "user_123",
	}))
	rc := newTestController(repo)

	for _, filter := range []string{"", "all", "Books"} {
		recs, err := rc.List(context.Background(), filter)
		require.NoError(t, err, "filter %q", filter)
		assert.Len(t, recs, 1, "filter %q", filter)
	}

	recs, err := rc.List(context.Background(), "Music")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestToggleStaffPick_RequiresAdmin(t *testing.T) {
	rc := newTestController(newFakeRecommendationRepo())

	_, err := rc.ToggleStaffPick(context.Background(), testUser(RoleUser), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestToggleStaffPick_RequiresAuthentication(t *testing.T) {
	rc := newTestController(newFakeRecommendationRepo())

	_, err := rc.ToggleStaffPick(context.Background(), nil, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthRequired)

	err = rc.Delete(context.Background(), nil, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthRequired)

	_, err = rc.Add(context.Background(), nil, AddRecommendationInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthRequired)
}

func TestToggleStaffPick_UnknownIDIsNotFound(t *testing.T) {
	rc := newTestController(newFakeRecommendationRepo())

	_, err := rc.ToggleStaffPick(context.Background(), testUser(RoleAdmin), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToggleStaffPick_FlipsFlag(t *testing.T) {
	repo := newFakeRecommendationRepo()
	rec := &Recommendation{Title: "Dune", Genre: "Books", OwnerSubject: "user_123"}
	require.NoError(t, repo.Create(context.Background(), rec))

	activity := &fakeActivityRepo{}
	rc := newTestController(repo)
	rc.activityRepo = activity

	updated, err := rc.ToggleStaffPick(context.Background(), testUser(RoleAdmin), rec.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsStaffPick)

	updated, err = rc.ToggleStaffPick(context.Background(), testUser(RoleAdmin), rec.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsStaffPick)

	require.Len(t, activity.entries, 2)
	assert.Equal(t, ActivityStaffPickToggled, activity.entries[0].Action)
}

func TestDelete_AuthorizationMatrix(t *testing.T) {
	testCases := []struct {
		name    string
		caller  *User
		wantErr error
	}{
		{
			name:   "owner deletes own record",
			caller: &User{Subject: "user_123", Name: "Owner", Role: RoleUser},
		},
		{
			name:    "non-owner non-admin is denied",
			caller:  &User{Subject: "user_456", Name: "Other", Role: RoleUser},
			wantErr: apperrors.ErrPermissionDenied,
		},
		{
			name:   "admin deletes any record",
			caller: &User{Subject: "admin_1", Name: "Admin", Role: RoleAdmin},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRecommendationRepo()
			rec := &Recommendation{Title: "Dune", Genre: "Books", OwnerSubject: "user_123"}
			require.NoError(t, repo.Create(context.Background(), rec))

			activity := &fakeActivityRepo{}
			rc := newTestController(repo)
			rc.activityRepo = activity

			err := rc.Delete(context.Background(), tc.caller, rec.ID)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Contains(t, repo.recs, rec.ID)
				assert.Empty(t, activity.entries)
				return
			}

			require.NoError(t, err)
			assert.NotContains(t, repo.recs, rec.ID)
			require.Len(t, activity.entries, 1)
			assert.Equal(t, ActivityRecommendationDeleted, activity.entries[0].Action)
			assert.Equal(t, tc.caller.Subject, activity.entries[0].ActorSubject)
		})
	}
}

func TestDelete_UnknownIDIsNotFound(t *testing.T) {
	rc := newTestController(newFakeRecommendationRepo())

	err := rc.Delete(context.Background(), testUser(RoleAdmin), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDelete_InvalidatesFeedCacheAfterCommit(t *testing.T) {
	repo := newFakeRecommendationRepo()
	rec := &Recommendation{Title: "Dune", Genre: "Books", OwnerSubject: "user_123"}
	require.NoError(t, repo.Create(context.Background(), rec))

	tx := &fakeTransaction{}
	rc := newTestController(repo)
	rc.transaction = tx

	repo.invalidations = 0
	repo.onInvalidate = func() {
		assert.True(t, tx.committed,
			"feed cache invalidated before the delete transaction committed")
	}

	require.NoError(t, rc.Delete(context.Background(), testUser(RoleUser), rec.ID))
	assert.Equal(t, 1, repo.invalidations)
}

func TestDelete_FailedDeleteLeavesFeedCacheAlone(t *testing.T) {
	repo := newFakeRecommendationRepo()
	rec := &Recommendation{Title: "Dune", Genre: "Books", OwnerSubject: "user_123"}
	require.NoError(t, repo.Create(context.Background(), rec))
	repo.invalidations = 0

	rc := newTestController(repo)

	other := &User{Subject: "user_456", Name: "Other", Role: RoleUser}
	require.Error(t, rc.Delete(context.Background(), other, rec.ID))
	assert.Zero(t, repo.invalidations)
}

func TestAdd_CreatesOwnedRecommendation(t *testing.T) {
	repo := newFakeRecommendationRepo()
	activity := &fakeActivityRepo{}
	rc := newTestController(repo)
	rc.activityRepo = activity

	user := testUser(RoleUser)
	rec, err := rc.Add(context.Background(), user, AddRecommendationInput{
		Title: "Outer Wilds",
		Genre: "Games",
		Blurb: "Curiosity-driven space archaeology.",
	})

	require.NoError(t, err)
	assert.Equal(t, user.Subject, rec.OwnerSubject)
	assert.Equal(t, user.Name, rec.AuthorName)
	assert.Contains(t, repo.recs, rec.ID)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, ActivityRecommendationAdded, activity.entries[0].Action)
	assert.Equal(t, user.Subject, activity.entries[0].ActorSubject)
	assert.Equal(t, rec.ID.String(), activity.entries[0].RecordID)
}

type fakeActivityRepo struct {
	entries []*ActivityLog
}

func (f *fakeActivityRepo) Create(ctx context.Context, entry *ActivityLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(ctx context.Context, limit int) ([]ActivityLog, error) {
	var out []ActivityLog
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.entries[i])
	}
	return out, nil
}

func (f *fakeActivityRepo) PruneOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	pruned := int64(len(f.entries) - len(kept))
	f.entries = kept
	return pruned, nil
}

var _ repositories.ActivityLogRepository = (*fakeActivityRepo)(nil)
