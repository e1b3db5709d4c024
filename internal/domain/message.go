// File: internal/domain/message.go
package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ChatMessage is an append-only entry in a session. Ordering is created_at, then id.
type ChatMessage struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	SessionID    uint      `json:"session_id" gorm:"not null;index"`
	Role         Role      `json:"role" gorm:"not null;size:16"`
	Content      string    `json:"content" gorm:"type:text;not null"`
	DocumentName *string   `json:"document_name,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
