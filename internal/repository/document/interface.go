package document

import (
	"context"

	"github.com/iyunix/go-legalist/internal/domain"
)

// DocumentRepository handles uploaded document records.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	FindByID(ctx context.Context, id uint) (*domain.Document, error)
	FindByIDAndUserID(ctx context.Context, id, userID uint) (*domain.Document, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Document, error)
	// UpdateResult writes status, content and error kind in a single statement.
	UpdateResult(ctx context.Context, id uint, status domain.DocumentStatus, content, errorKind string) error
	// ResetPending puts the document back to the placeholder state for a new run.
	ResetPending(ctx context.Context, id uint, targetLanguage string) error
	Delete(ctx context.Context, id uint) error
}
