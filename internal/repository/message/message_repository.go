package message

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/iyunix/go-legalist/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create appends a message. Content is not logged.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message creation for session ID %d: %v", message.SessionID, err)
		return nil, errors.New("database error creating message")
	}
	return message, nil
}

func (r *gormMessageRepository) FindBySessionID(ctx context.Context, sessionID uint) ([]domain.ChatMessage, error) {
	if sessionID == 0 {
		return nil, errors.New("invalid session ID")
	}

	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for session ID %d: %v", sessionID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) FindRecent(ctx context.Context, sessionID uint, limit int) ([]domain.ChatMessage, error) {
	if sessionID == 0 {
		return nil, errors.New("invalid session ID")
	}
	if limit <= 0 || limit > 1000 {
		return nil, errors.New("invalid limit: must be between 1 and 1000")
	}

	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding recent messages for session ID %d: %v", sessionID, err)
		return nil, errors.New("database error fetching recent messages")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *gormMessageRepository) CountBySessionID(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChatMessage{}).Where("session_id = ?", sessionID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for session ID %d: %v", sessionID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.ChatMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.SessionID == 0 {
		return errors.New("session ID is required")
	}
	if !message.Role.Valid() {
		return fmt.Errorf("invalid role %q", message.Role)
	}
	return nil
}
