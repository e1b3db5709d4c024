// File: internal/domain/schedule.go
package domain

import "time"

const DefaultScheduleStatus = "Scheduled"

type Schedule struct {
	ID                  uint       `json:"id" gorm:"primarykey"`
	UserID              uint       `json:"user_id" gorm:"not null;index"`
	CaseName            string     `json:"case_name" gorm:"not null"`
	CourtDate           time.Time  `json:"court_date" gorm:"not null;index"`
	ReminderDate        *time.Time `json:"reminder_date"`
	Status              string     `json:"status" gorm:"not null;default:'Scheduled'"`
	Progress            *string    `json:"progress"`
	NotificationEnabled bool       `json:"notification_enabled" gorm:"not null"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Schedule) TableName() string { return "schedules" }
