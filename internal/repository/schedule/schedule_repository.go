package schedule

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iyunix/go-legalist/internal/domain"
)

var ErrScheduleNotFound = errors.New("schedule not found")

type gormScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &gormScheduleRepository{db: db}
}

func (r *gormScheduleRepository) Create(ctx context.Context, s *domain.Schedule) (*domain.Schedule, error) {
	if s == nil || s.UserID == 0 {
		return nil, errors.New("validation failed: user ID is required")
	}
	s.CaseName = strings.TrimSpace(s.CaseName)
	if s.CaseName == "" {
		return nil, errors.New("validation failed: case name is required")
	}
	if s.CourtDate.IsZero() {
		return nil, errors.New("validation failed: court date is required")
	}
	if s.Status == "" {
		s.Status = domain.DefaultScheduleStatus
	}

	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		log.Printf("[ScheduleRepository] Database error creating schedule for user ID %d: %v", s.UserID, err)
		return nil, errors.New("database error creating schedule")
	}
	return s, nil
}

func (r *gormScheduleRepository) FindByIDAndUserID(ctx context.Context, id, userID uint) (*domain.Schedule, error) {
	var s domain.Schedule
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		log.Printf("[ScheduleRepository] Database query error: %v", err)
		return nil, errors.New("database query failed")
	}
	return &s, nil
}

// FindByUserID lists schedules by court date, soonest first.
func (r *gormScheduleRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Schedule, error) {
	var out []domain.Schedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("court_date ASC, id ASC").
		Find(&out).Error
	if err != nil {
		log.Printf("[ScheduleRepository] Database error listing schedules for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching schedules")
	}
	return out, nil
}

// FindBetween returns schedules with from <= court_date <= to.
func (r *gormScheduleRepository) FindBetween(ctx context.Context, userID uint, from, to time.Time) ([]domain.Schedule, error) {
	if from.After(to) {
		return nil, fmt.Errorf("invalid range: %s after %s", from, to)
	}

	var out []domain.Schedule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND court_date >= ? AND court_date <= ?", userID, from, to).
		Order("court_date ASC, id ASC").
		Find(&out).Error
	if err != nil {
		log.Printf("[ScheduleRepository] Database error finding upcoming schedules for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching schedules")
	}
	return out, nil
}

func (r *gormScheduleRepository) Update(ctx context.Context, s *domain.Schedule) error {
	if s.ID == 0 {
		return errors.New("invalid schedule ID")
	}
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		log.Printf("[ScheduleRepository] Database error updating schedule ID %d: %v", s.ID, err)
		return errors.New("database error updating schedule")
	}
	return nil
}

func (r *gormScheduleRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Schedule{})
	if result.Error != nil {
		log.Printf("[ScheduleRepository] Database error deleting schedule ID %d: %v", id, result.Error)
		return errors.New("database error deleting schedule")
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
