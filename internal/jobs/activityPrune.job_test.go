package jobs

import (
	"context"
	"testing"
	"time"

	"hypeshelf/internal/constants"
	. "hypeshelf/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActivityRepo struct {
	entries []ActivityLog
	pruned  int64
}

func (f *fakeActivityRepo) Create(ctx context.Context, entry *ActivityLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(ctx context.Context, limit int) ([]ActivityLog, error) {
	return f.entries, nil
}

func (f *fakeActivityRepo) PruneOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	kept := f.entries[:0]
	var pruned int64
	for _, e := range f.entries {
		if e.CreatedAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	f.pruned = pruned
	return pruned, nil
}

func TestActivityPruneJob_Execute(t *testing.T) {
	repo := &fakeActivityRepo{
		entries: []ActivityLog{
			{
				Action: ActivityRecommendationAdded,
				BaseModel: BaseModel{
					CreatedAt: time.Now().Add(-constants.ActivityRetention - time.Hour),
				},
			},
			{
				Action:    ActivityStaffPickToggled,
				BaseModel: BaseModel{CreatedAt: time.Now()},
			},
		},
	}

	job := NewActivityPruneJob(repo, Daily)
	assert.Equal(t, "ActivityLogPrune", job.Name())
	assert.Equal(t, Daily, job.Schedule())

	require.NoError(t, job.Execute(context.Background()))
	assert.Equal(t, int64(1), repo.pruned)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, ActivityStaffPickToggled, repo.entries[0].Action)
}
