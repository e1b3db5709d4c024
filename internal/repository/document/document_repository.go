package document

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

var ErrDocumentNotFound = errors.New("document not found")

type gormDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

func (r *gormDocumentRepository) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := r.validateDocumentInput(doc); err != nil {
		log.Printf("[DocumentRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		log.Printf("[DocumentRepository] Database error creating document for user ID %d: %v", doc.UserID, err)
		return nil, errors.New("database error creating document")
	}

	log.Printf("[DocumentRepository] Document created with ID: %d for user: %d", doc.ID, doc.UserID)
	return doc, nil
}

func (r *gormDocumentRepository) FindByID(ctx context.Context, id uint) (*domain.Document, error) {
	if id == 0 {
		return nil, errors.New("invalid document ID")
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).First(&doc, id).Error
	return r.handleFindError(err, &doc)
}

func (r *gormDocumentRepository) FindByIDAndUserID(ctx context.Context, id, userID uint) (*domain.Document, error) {
	if id == 0 || userID == 0 {
		return nil, errors.New("invalid document ID or user ID")
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&doc).Error
	return r.handleFindError(err, &doc)
}

func (r *gormDocumentRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Document, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC, id DESC").
		Find(&docs).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error listing documents for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching documents")
	}
	return docs, nil
}

func (r *gormDocumentRepository) UpdateResult(ctx context.Context, id uint, status domain.DocumentStatus, content, errorKind string) error {
	if id == 0 {
		return errors.New("invalid document ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"content":    content,
			"error_kind": errorKind,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error writing result for document ID %d: %v", id, result.Error)
		return errors.New("database error updating document")
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *gormDocumentRepository) ResetPending(ctx context.Context, id uint, targetLanguage string) error {
	updates := map[string]interface{}{
		"status":     domain.DocumentPending,
		"content":    domain.PlaceholderContent,
		"error_kind": "",
		"updated_at": time.Now(),
	}
	if targetLanguage = strings.TrimSpace(targetLanguage); targetLanguage != "" {
		updates["target_language"] = targetLanguage
	}

	result := r.db.WithContext(ctx).Model(&domain.Document{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error resetting document ID %d: %v", id, result.Error)
		return errors.New("database error updating document")
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *gormDocumentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Document{}, id)
	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error deleting document ID %d: %v", id, result.Error)
		return errors.New("database error deleting document")
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *gormDocumentRepository) validateDocumentInput(doc *domain.Document) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}
	if doc.UserID == 0 {
		return errors.New("user ID is required")
	}
	if strings.TrimSpace(doc.Filename) == "" {
		return errors.New("filename is required")
	}
	if doc.FilePath == "" {
		return errors.New("file path is required")
	}
	if doc.OriginalLanguage == "" {
		doc.OriginalLanguage = domain.DefaultLanguage
	}
	if doc.Status == "" {
		doc.Status = domain.DocumentPending
	}
	return nil
}

func (r *gormDocumentRepository) handleFindError(err error, doc *domain.Document) (*domain.Document, error) {
	if err == nil {
		return doc, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	log.Printf("[DocumentRepository] Database query error: %v", err)
	return nil, errors.New("database query failed")
}
