package chat

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

var ErrSessionNotFound = errors.New("chat session not found")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

// Create validates input and inserts the session.
func (r *gormChatRepository) Create(ctx context.Context, session *domain.ChatSession) (*domain.ChatSession, error) {
	if err := r.validateSessionInput(session); err != nil {
		log.Printf("[ChatRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		log.Printf("[ChatRepository] Database error during session creation: %v", err)
		return nil, errors.New("database error creating chat session")
	}

	log.Printf("[ChatRepository] Session created successfully with ID: %d", session.ID)
	return session, nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, sessionID uint) (*domain.ChatSession, error) {
	if sessionID == 0 {
		return nil, errors.New("invalid session ID")
	}

	var session domain.ChatSession
	err := r.db.WithContext(ctx).First(&session, sessionID).Error
	return r.handleFindError(err, &session, "FindByID")
}

// FindByUserID lists a user's sessions, most recently active first.
func (r *gormChatRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.ChatSession, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var sessions []domain.ChatSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&sessions).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error finding sessions for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching chat sessions")
	}
	return sessions, nil
}

func (r *gormChatRepository) Delete(ctx context.Context, sessionID uint) error {
	if sessionID == 0 {
		return errors.New("invalid session ID")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&domain.ChatMessage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.ChatSession{}, sessionID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		return err
	}
	if err != nil {
		log.Printf("[ChatRepository] Database error deleting session ID %d: %v", sessionID, err)
		return errors.New("database error deleting chat session")
	}

	log.Printf("[ChatRepository] Session deleted successfully: ID %d", sessionID)
	return nil
}

// TouchUpdatedAt sets updated_at explicitly. The application clock is used
// instead of CURRENT_TIMESTAMP so ordering matches created_at on messages.
func (r *gormChatRepository) TouchUpdatedAt(ctx context.Context, sessionID uint, at time.Time) error {
	if sessionID == 0 {
		return errors.New("invalid session ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.ChatSession{}).
		Where("id = ?", sessionID).
		UpdateColumn("updated_at", at)
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error updating timestamp for session ID %d: %v", sessionID, result.Error)
		return errors.New("database error updating chat timestamp")
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *gormChatRepository) validateSessionInput(session *domain.ChatSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	session.Title = strings.TrimSpace(session.Title)
	if session.Title == "" {
		session.Title = domain.DefaultSessionTitle
	}
	if len(session.Title) > 255 {
		return errors.New("title too long")
	}
	return nil
}

func (r *gormChatRepository) handleFindError(err error, session *domain.ChatSession, operation string) (*domain.ChatSession, error) {
	if err == nil {
		return session, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	log.Printf("[ChatRepository] Database error in %s: %v", operation, err)
	return nil, errors.New("database query failed")
}
