// File: internal/services/schedule_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/repository/schedule"
)

var ErrInvalidSchedule = errors.New("invalid schedule")

const DefaultUpcomingDays = 7

// ScheduleInput carries the fields a user sets on a court date entry.
type ScheduleInput struct {
	CaseName            string     `json:"case_name"`
	CourtDate           time.Time  `json:"court_date"`
	ReminderDate        *time.Time `json:"reminder_date"`
	Status              string     `json:"status"`
	Progress            *string    `json:"progress"`
	NotificationEnabled *bool      `json:"notification_enabled"`
}

// ScheduleUpdate holds optional changes; nil fields are left alone.
type ScheduleUpdate struct {
	CaseName            *string    `json:"case_name"`
	CourtDate           *time.Time `json:"court_date"`
	ReminderDate        *time.Time `json:"reminder_date"`
	Status              *string    `json:"status"`
	Progress            *string    `json:"progress"`
	NotificationEnabled *bool      `json:"notification_enabled"`
}

type ScheduleService struct {
	repo   schedule.ScheduleRepository
	logger Logger
	now    func() time.Time
}

func NewScheduleService(repo schedule.ScheduleRepository, logger Logger) *ScheduleService {
	return &ScheduleService{repo: repo, logger: logger, now: time.Now}
}

func (s *ScheduleService) Create(ctx context.Context, userID uint, in ScheduleInput) (*domain.Schedule, error) {
	if strings.TrimSpace(in.CaseName) == "" || in.CourtDate.IsZero() {
		return nil, ErrInvalidSchedule
	}
	notify := true
	if in.NotificationEnabled != nil {
		notify = *in.NotificationEnabled
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = domain.DefaultScheduleStatus
	}

	sch, err := s.repo.Create(ctx, &domain.Schedule{
		UserID:              userID,
		CaseName:            strings.TrimSpace(in.CaseName),
		CourtDate:           in.CourtDate,
		ReminderDate:        in.ReminderDate,
		Status:              status,
		Progress:            in.Progress,
		NotificationEnabled: notify,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("schedule created", "schedule_id", sch.ID, "user_id", userID)
	return sch, nil
}

func (s *ScheduleService) List(ctx context.Context, userID uint) ([]domain.Schedule, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// Upcoming returns court dates from now through the next days days.
func (s *ScheduleService) Upcoming(ctx context.Context, userID uint, days int) ([]domain.Schedule, error) {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	now := s.now()
	return s.repo.FindBetween(ctx, userID, now, now.AddDate(0, 0, days))
}

func (s *ScheduleService) Update(ctx context.Context, userID, scheduleID uint, in ScheduleUpdate) (*domain.Schedule, error) {
	sch, err := s.repo.FindByIDAndUserID(ctx, scheduleID, userID)
	if err != nil {
		return nil, err
	}
	if in.CaseName != nil {
		if strings.TrimSpace(*in.CaseName) == "" {
			return nil, ErrInvalidSchedule
		}
		sch.CaseName = strings.TrimSpace(*in.CaseName)
	}
	if in.CourtDate != nil {
		sch.CourtDate = *in.CourtDate
	}
	if in.ReminderDate != nil {
		sch.ReminderDate = in.ReminderDate
	}
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		sch.Status = strings.TrimSpace(*in.Status)
	}
	if in.Progress != nil {
		sch.Progress = in.Progress
	}
	if in.NotificationEnabled != nil {
		sch.NotificationEnabled = *in.NotificationEnabled
	}
	if err := s.repo.Update(ctx, sch); err != nil {
		return nil, err
	}
	return sch, nil
}

func (s *ScheduleService) Delete(ctx context.Context, userID, scheduleID uint) error {
	return s.repo.Delete(ctx, scheduleID, userID)
}
