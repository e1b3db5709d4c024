package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iyunix/go-legalist/internal/domain"
	chatrepo "github.com/iyunix/go-legalist/internal/repository/chat"
	"github.com/iyunix/go-legalist/internal/repository/message"
)

// Reply is the outcome of one conversational turn.
type Reply struct {
	SessionID uint   `json:"session_id"`
	Response  string `json:"response"`
}

// Conversation runs a chat turn: persist the user message, assemble the
// bounded window, ask the model, persist the answer, bump the session.
type Conversation struct {
	config    *Config
	sessions  chatrepo.ChatRepository
	messages  message.MessageRepository
	responder Responder
	helper    *ContextHelper
	logger    Logger
	now       func() time.Time
}

func NewConversation(
	config *Config,
	sessions chatrepo.ChatRepository,
	messages message.MessageRepository,
	responder Responder,
	logger Logger,
) (*Conversation, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Conversation{
		config:    config,
		sessions:  sessions,
		messages:  messages,
		responder: responder,
		helper:    NewContextHelper(config, logger),
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Helper exposes the context helper shared with upload handling.
func (c *Conversation) Helper() *ContextHelper { return c.helper }

// SendMessage handles one user turn. sessionID 0 opens a new session owned
// by userID (nil for guests) and titled from the message.
func (c *Conversation) SendMessage(ctx context.Context, userID *uint, sessionID uint, text string) (*Reply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewValidationError("send_message", "message cannot be empty")
	}

	session, err := c.resolveSession(ctx, userID, sessionID, text)
	if err != nil {
		return nil, err
	}

	// The reply is stored even if the caller goes away mid-request.
	persistCtx := context.WithoutCancel(ctx)

	if _, err := c.messages.Create(persistCtx, &domain.ChatMessage{
		SessionID: session.ID,
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: c.now(),
	}); err != nil {
		return nil, NewStorageError("send_message", "failed to save message", err)
	}

	history, err := c.messages.FindRecent(persistCtx, session.ID, c.config.HistoryLimit)
	if err != nil {
		return nil, NewStorageError("send_message", "failed to load history", err)
	}

	llmCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	reply := c.responder.GetChatResponse(llmCtx, c.helper.BuildWindow(history), c.config.MaxTokens)
	cancel()

	at := c.now()
	if _, err := c.messages.Create(persistCtx, &domain.ChatMessage{
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Content:   reply,
		CreatedAt: at,
	}); err != nil {
		return nil, NewStorageError("send_message", "failed to save reply", err)
	}
	if err := c.sessions.TouchUpdatedAt(persistCtx, session.ID, at); err != nil {
		c.logger.Warn("failed to bump session timestamp", "session_id", session.ID, "error", err)
	}

	c.logger.Info("chat turn completed",
		"session_id", session.ID,
		"window", len(history),
		"fallback", reply == FallbackReply)

	return &Reply{SessionID: session.ID, Response: reply}, nil
}

func (c *Conversation) resolveSession(ctx context.Context, userID *uint, sessionID uint, text string) (*domain.ChatSession, error) {
	if sessionID == 0 {
		session, err := c.sessions.Create(ctx, &domain.ChatSession{
			UserID: userID,
			Title:  c.helper.SessionTitle(text),
		})
		if err != nil {
			return nil, NewStorageError("create_session", "failed to create session", err)
		}
		return session, nil
	}

	session, err := c.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, chatrepo.ErrSessionNotFound) {
		return nil, NewNotFoundError("send_message", sessionID)
	}
	if err != nil {
		return nil, NewStorageError("send_message", "failed to load session", err)
	}
	if !session.OwnedBy(userID) {
		return nil, NewUnauthorizedError(sessionID)
	}
	return session, nil
}
