package schedule

import (
	"context"
	"time"

	"github.com/iyunix/go-legalist/internal/domain"
)

// ScheduleRepository handles court date records.
type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.Schedule) (*domain.Schedule, error)
	FindByIDAndUserID(ctx context.Context, id, userID uint) (*domain.Schedule, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Schedule, error)
	FindBetween(ctx context.Context, userID uint, from, to time.Time) ([]domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	Delete(ctx context.Context, id, userID uint) error
}
