// File: internal/domain/chat.go
package domain

import "time"

const DefaultSessionTitle = "New Conversation"

// ChatSession is a single conversation thread. A nil UserID marks a guest session.
type ChatSession struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	Title     string    `json:"title" gorm:"not null;default:'New Conversation'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

func (ChatSession) TableName() string { return "chat_sessions" }

// OwnedBy reports whether userID may read or modify the session.
// Guest sessions are open to any caller holding their ID.
func (s *ChatSession) OwnedBy(userID *uint) bool {
	if s.UserID == nil {
		return true
	}
	return userID != nil && *s.UserID == *userID
}
