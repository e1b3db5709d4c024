// File: internal/services/chat_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/iyunix/go-legalist/internal/domain"
	chatrepo "github.com/iyunix/go-legalist/internal/repository/chat"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/repository/message"
	chatservice "github.com/iyunix/go-legalist/internal/services/chat"
	"github.com/iyunix/go-legalist/internal/storage"
)

// TextExtractor yields the text of an uploaded document, "" when unreadable.
type TextExtractor interface {
	ExtractBytes(content []byte) string
}

// Drafter writes complete legal documents.
type Drafter interface {
	DraftDocument(ctx context.Context, topic, details string) string
}

// HistoryMessage is one stored message as shown to the client. Assistant
// replies also carry their markdown rendered to HTML.
type HistoryMessage struct {
	ID           uint      `json:"id"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	ContentHTML  string    `json:"content_html,omitempty"`
	DocumentName *string   `json:"document_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttachResult reports a document added to a chat session.
type AttachResult struct {
	SessionID  uint `json:"session_id"`
	DocumentID uint `json:"document_id"`
	MessageID  uint `json:"message_id"`
	Truncated  bool `json:"truncated"`
}

type ChatService struct {
	conversation *chatservice.Conversation
	chatRepo     chatrepo.ChatRepository
	messageRepo  message.MessageRepository
	docRepo      document.DocumentRepository
	files        storage.FileStore
	extractor    TextExtractor
	drafter      Drafter
	markdown     goldmark.Markdown
	logger       Logger
}

func NewChatService(
	conversation *chatservice.Conversation,
	chatRepo chatrepo.ChatRepository,
	messageRepo message.MessageRepository,
	docRepo document.DocumentRepository,
	files storage.FileStore,
	extractor TextExtractor,
	drafter Drafter,
	logger Logger,
) (*ChatService, error) {
	if conversation == nil {
		return nil, chatservice.NewValidationError("constructor", "conversation is required")
	}
	if chatRepo == nil || messageRepo == nil || docRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "repositories are required")
	}
	if files == nil || extractor == nil {
		return nil, chatservice.NewValidationError("constructor", "file store and extractor are required")
	}

	return &ChatService{
		conversation: conversation,
		chatRepo:     chatRepo,
		messageRepo:  messageRepo,
		docRepo:      docRepo,
		files:        files,
		extractor:    extractor,
		drafter:      drafter,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		logger: logger,
	}, nil
}

// SendMessage runs one conversational turn.
func (s *ChatService) SendMessage(ctx context.Context, userID *uint, sessionID uint, text string) (*chatservice.Reply, error) {
	return s.conversation.SendMessage(ctx, userID, sessionID, text)
}

func (s *ChatService) CreateSession(ctx context.Context, userID uint, title string) (*domain.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultSessionTitle
	}
	if len([]rune(title)) > 100 {
		title = chatservice.TruncateText(title, 100)
	}
	session, err := s.chatRepo.Create(ctx, &domain.ChatSession{UserID: &userID, Title: title})
	if err != nil {
		return nil, chatservice.NewStorageError("create_session", "could not create session", err)
	}
	return session, nil
}

// ListSessions returns the user's sessions, most recently active first.
func (s *ChatService) ListSessions(ctx context.Context, userID uint) ([]domain.ChatSession, error) {
	sessions, err := s.chatRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, chatservice.NewStorageError("list_sessions", "could not list sessions", err)
	}
	return sessions, nil
}

// GetHistory returns every message of a session in chronological order.
func (s *ChatService) GetHistory(ctx context.Context, userID *uint, sessionID uint) ([]HistoryMessage, error) {
	if _, err := s.authorize(ctx, "get_history", userID, sessionID); err != nil {
		return nil, err
	}

	msgs, err := s.messageRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, chatservice.NewStorageError("get_history", "could not load messages", err)
	}

	out := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		h := HistoryMessage{
			ID:           m.ID,
			Role:         string(m.Role),
			Content:      m.Content,
			DocumentName: m.DocumentName,
			CreatedAt:    m.CreatedAt,
		}
		if m.Role == domain.RoleAssistant {
			h.ContentHTML = s.renderMarkdown(m.Content)
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *ChatService) DeleteSession(ctx context.Context, userID *uint, sessionID uint) error {
	if _, err := s.authorize(ctx, "delete_session", userID, sessionID); err != nil {
		return err
	}
	if err := s.chatRepo.Delete(ctx, sessionID); err != nil {
		return chatservice.NewStorageError("delete_session", "could not delete session", err)
	}
	return nil
}

// AttachDocument brings a PDF into a conversation. The file is stored and
// listed among the user's documents without translation, and its text joins
// the session as a user message.
func (s *ChatService) AttachDocument(ctx context.Context, userID, sessionID uint, filename string, content []byte) (*AttachResult, error) {
	filename = storage.SafeFilename(filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, chatservice.NewValidationError("attach_document", "only PDF files are supported")
	}
	if len(content) == 0 {
		return nil, chatservice.NewValidationError("attach_document", "file is empty")
	}
	if _, err := s.authorize(ctx, "attach_document", &userID, sessionID); err != nil {
		return nil, err
	}

	text := s.extractor.ExtractBytes(content)

	key := storage.NewKey(userID, filename)
	if err := s.files.Save(ctx, key, bytes.NewReader(content), int64(len(content)), "application/pdf"); err != nil {
		return nil, chatservice.NewStorageError("attach_document", "could not store file", err)
	}

	doc, err := s.docRepo.Create(ctx, &domain.Document{
		UserID:         userID,
		Filename:       filename,
		FilePath:       key,
		TargetLanguage: domain.DefaultLanguage,
		Status:         domain.DocumentCompleted,
		Content:        domain.ChatUploadContent,
	})
	if err != nil {
		if derr := s.files.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Warn("could not remove orphaned upload", "key", key, "error", derr)
		}
		return nil, chatservice.NewStorageError("attach_document", "could not record document", err)
	}

	name := filename
	msg, err := s.messageRepo.Create(ctx, &domain.ChatMessage{
		SessionID:    sessionID,
		Role:         domain.RoleUser,
		Content:      s.conversation.Helper().DocumentMessage(filename, text),
		DocumentName: &name,
	})
	if err != nil {
		return nil, chatservice.NewStorageError("attach_document", "could not add document to chat", err)
	}
	if err := s.chatRepo.TouchUpdatedAt(ctx, sessionID, msg.CreatedAt); err != nil {
		return nil, chatservice.NewStorageError("attach_document", "could not update session", err)
	}

	truncated := s.conversation.Helper().DocumentTruncated(text)
	s.logger.Info("document attached to chat",
		"session_id", sessionID,
		"document_id", doc.ID,
		"chars", len([]rune(text)),
		"truncated", truncated)

	return &AttachResult{SessionID: sessionID, DocumentID: doc.ID, MessageID: msg.ID, Truncated: truncated}, nil
}

// Draft produces a legal document draft outside any session.
func (s *ChatService) Draft(ctx context.Context, topic, details string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", chatservice.NewValidationError("draft", "topic is required")
	}
	if s.drafter == nil {
		return "", chatservice.NewValidationError("draft", "drafting is not configured")
	}
	return s.drafter.DraftDocument(ctx, topic, details), nil
}

// authorize loads a session and checks the caller may use it. Guest
// sessions are open to anyone holding their ID.
func (s *ChatService) authorize(ctx context.Context, op string, userID *uint, sessionID uint) (*domain.ChatSession, error) {
	session, err := s.chatRepo.FindByID(ctx, sessionID)
	if errors.Is(err, chatrepo.ErrSessionNotFound) {
		return nil, chatservice.NewNotFoundError(op, sessionID)
	}
	if err != nil {
		return nil, chatservice.NewStorageError(op, "could not load session", err)
	}
	if !session.OwnedBy(userID) {
		return nil, chatservice.NewUnauthorizedError(sessionID)
	}
	return session, nil
}

func (s *ChatService) renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		s.logger.Debug("markdown render failed", "error", err)
		return ""
	}
	return buf.String()
}
