package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/repository/schedule"
	"github.com/iyunix/go-legalist/internal/testutil"
)

func TestCreateAndFindBetween(t *testing.T) {
	ctx := context.Background()
	repo := schedule.NewScheduleRepository(testutil.NewDB(t))
	now := time.Now()

	for i, offset := range []time.Duration{-24 * time.Hour, 48 * time.Hour, 10 * 24 * time.Hour} {
		_, err := repo.Create(ctx, &domain.Schedule{UserID: 1, CaseName: "case", CourtDate: now.Add(offset)})
		require.NoError(t, err, i)
	}

	within, err := repo.FindBetween(ctx, 1, now, now.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, within, 1)
	assert.Equal(t, domain.DefaultScheduleStatus, within[0].Status)

	all, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, all[0].CourtDate.Before(all[1].CourtDate))
}

func TestCreateValidates(t *testing.T) {
	repo := schedule.NewScheduleRepository(testutil.NewDB(t))
	_, err := repo.Create(context.Background(), &domain.Schedule{UserID: 1, CourtDate: time.Now()})
	assert.Error(t, err)
	_, err = repo.Create(context.Background(), &domain.Schedule{UserID: 1, CaseName: "x"})
	assert.Error(t, err)
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	repo := schedule.NewScheduleRepository(testutil.NewDB(t))
	s, err := repo.Create(ctx, &domain.Schedule{UserID: 1, CaseName: "x", CourtDate: time.Now()})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, s.ID, 2), schedule.ErrScheduleNotFound)
	assert.NoError(t, repo.Delete(ctx, s.ID, 1))
}
