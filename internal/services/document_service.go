// File: internal/services/document_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/jobs"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/storage"
)

var ErrEmptyUpload = errors.New("uploaded file is empty")

// Enqueuer schedules background translation of a document.
type Enqueuer interface {
	Enqueue(ctx context.Context, documentID uint) (jobs.JobStatus, error)
}

// UploadResult is returned as soon as the placeholder record exists and the
// translation job has been scheduled.
type UploadResult struct {
	Document *domain.Document `json:"document"`
	JobID    string           `json:"job_id,omitempty"`
}

// DocumentService owns uploaded case documents and hands translation to the queue.
type DocumentService struct {
	docRepo document.DocumentRepository
	files   storage.FileStore
	queue   Enqueuer
	logger  Logger
}

func NewDocumentService(docRepo document.DocumentRepository, files storage.FileStore, queue Enqueuer, logger Logger) *DocumentService {
	return &DocumentService{
		docRepo: docRepo,
		files:   files,
		queue:   queue,
		logger:  logger,
	}
}

// Upload stores the file, creates a pending record and schedules translation.
// It never waits for the translation itself.
func (s *DocumentService) Upload(ctx context.Context, userID uint, filename string, r io.Reader, size int64, targetLanguage string) (*UploadResult, error) {
	if size == 0 {
		return nil, ErrEmptyUpload
	}
	filename = storage.SafeFilename(filename)
	targetLanguage = strings.TrimSpace(targetLanguage)
	if targetLanguage == "" {
		targetLanguage = domain.DefaultLanguage
	}

	key := storage.NewKey(userID, filename)
	if err := s.files.Save(ctx, key, r, size, contentTypeFor(filename)); err != nil {
		s.logger.Error("failed to store upload", "user_id", userID, "error", err)
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc, err := s.docRepo.Create(ctx, &domain.Document{
		UserID:         userID,
		Filename:       filename,
		FilePath:       key,
		TargetLanguage: targetLanguage,
		Status:         domain.DocumentPending,
		Content:        domain.PlaceholderContent,
	})
	if err != nil {
		if derr := s.files.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Warn("could not remove orphaned upload", "key", key, "error", derr)
		}
		return nil, err
	}

	s.logger.Info("document uploaded", "document_id", doc.ID, "user_id", userID, "target_language", targetLanguage)
	return s.schedule(ctx, doc)
}

// Retranslate resets a document to pending and schedules a new job. A job
// still running for the same document may finish later; the last write wins.
func (s *DocumentService) Retranslate(ctx context.Context, userID, documentID uint, targetLanguage string) (*UploadResult, error) {
	if _, err := s.docRepo.FindByIDAndUserID(ctx, documentID, userID); err != nil {
		return nil, err
	}
	if err := s.docRepo.ResetPending(ctx, documentID, targetLanguage); err != nil {
		return nil, err
	}
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.schedule(ctx, doc)
}

func (s *DocumentService) List(ctx context.Context, userID uint) ([]domain.Document, error) {
	return s.docRepo.FindByUserID(ctx, userID)
}

// Get returns the record so callers can poll its status.
func (s *DocumentService) Get(ctx context.Context, userID, documentID uint) (*domain.Document, error) {
	return s.docRepo.FindByIDAndUserID(ctx, documentID, userID)
}

// Download returns the original file bytes with their record.
func (s *DocumentService) Download(ctx context.Context, userID, documentID uint) (*domain.Document, []byte, error) {
	doc, err := s.docRepo.FindByIDAndUserID(ctx, documentID, userID)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.files.Read(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return doc, content, nil
}

// Delete removes the record and then its file.
func (s *DocumentService) Delete(ctx context.Context, userID, documentID uint) error {
	doc, err := s.docRepo.FindByIDAndUserID(ctx, documentID, userID)
	if err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, doc.ID); err != nil {
		return err
	}
	if err := s.files.Delete(ctx, doc.FilePath); err != nil {
		s.logger.Warn("could not remove stored file", "document_id", doc.ID, "error", err)
	}
	return nil
}

// schedule enqueues translation. When the queue refuses the job the record
// is marked failed right away so it does not stay pending forever.
func (s *DocumentService) schedule(ctx context.Context, doc *domain.Document) (*UploadResult, error) {
	job, err := s.queue.Enqueue(ctx, doc.ID)
	if err != nil {
		s.logger.Error("failed to schedule translation", "document_id", doc.ID, "error", err)
		content := domain.FailedContentPrefix + "could not schedule translation"
		if uerr := s.docRepo.UpdateResult(context.WithoutCancel(ctx), doc.ID, domain.DocumentFailed, content, "internal"); uerr != nil {
			s.logger.Error("failed to record scheduling failure", "document_id", doc.ID, "error", uerr)
		}
		doc.Status = domain.DocumentFailed
		doc.Content = content
		doc.ErrorKind = "internal"
		return &UploadResult{Document: doc}, nil
	}
	return &UploadResult{Document: doc, JobID: job.ID}, nil
}

func contentTypeFor(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}
