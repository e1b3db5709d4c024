package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/logging"
	"github.com/iyunix/go-legalist/internal/repository/schedule"
	"github.com/iyunix/go-legalist/internal/testutil"
)

func newScheduleService(t *testing.T, now time.Time) *ScheduleService {
	t.Helper()
	svc := NewScheduleService(schedule.NewScheduleRepository(testutil.NewDB(t)), &logging.NoOpLogger{})
	svc.now = func() time.Time { return now }
	return svc
}

func TestScheduleCreateDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newScheduleService(t, now)

	sch, err := svc.Create(context.Background(), 1, ScheduleInput{CaseName: " State vs Rao ", CourtDate: now.AddDate(0, 0, 2)})
	require.NoError(t, err)
	assert.Equal(t, "State vs Rao", sch.CaseName)
	assert.Equal(t, domain.DefaultScheduleStatus, sch.Status)
	assert.True(t, sch.NotificationEnabled)

	off := false
	quiet, err := svc.Create(context.Background(), 1, ScheduleInput{CaseName: "Quiet", CourtDate: now, NotificationEnabled: &off})
	require.NoError(t, err)
	list, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	for _, s := range list {
		if s.ID == quiet.ID {
			assert.False(t, s.NotificationEnabled)
		}
	}

	_, err = svc.Create(context.Background(), 1, ScheduleInput{CaseName: "", CourtDate: now})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestScheduleUpcomingWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newScheduleService(t, now)

	for name, at := range map[string]time.Time{
		"past":      now.Add(-time.Hour),
		"soon":      now.AddDate(0, 0, 3),
		"later":     now.AddDate(0, 0, 10),
		"otheruser": now.AddDate(0, 0, 1),
	} {
		owner := uint(1)
		if name == "otheruser" {
			owner = 2
		}
		_, err := svc.Create(ctx, owner, ScheduleInput{CaseName: name, CourtDate: at})
		require.NoError(t, err)
	}

	week, err := svc.Upcoming(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, "soon", week[0].CaseName)

	fortnight, err := svc.Upcoming(ctx, 1, 14)
	require.NoError(t, err)
	assert.Len(t, fortnight, 2)
}

func TestScheduleUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newScheduleService(t, now)
	sch, err := svc.Create(ctx, 1, ScheduleInput{CaseName: "Appeal", CourtDate: now})
	require.NoError(t, err)

	status, progress := "Adjourned", "Next hearing after vacation"
	updated, err := svc.Update(ctx, 1, sch.ID, ScheduleUpdate{Status: &status, Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, "Adjourned", updated.Status)
	require.NotNil(t, updated.Progress)
	assert.Equal(t, progress, *updated.Progress)

	_, err = svc.Update(ctx, 2, sch.ID, ScheduleUpdate{Status: &status})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 2, sch.ID), schedule.ErrScheduleNotFound)
	require.NoError(t, svc.Delete(ctx, 1, sch.ID))
}
