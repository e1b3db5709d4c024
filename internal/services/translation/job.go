package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/storage"
)

// Result is the outcome of one job run: Text on success, Err on failure.
type Result struct {
	DocumentID uint
	Status     domain.DocumentStatus
	Text       string
	Err        *JobError
}

func (r Result) OK() bool { return r.Err == nil }

// Job runs the extract, translate, persist pipeline for one document. It
// reads the record through its own repository handle and writes the outcome
// as a single row update, so repeated runs for one ID are safe and the last
// write wins.
type Job struct {
	docs       document.DocumentRepository
	files      storage.FileStore
	extractor  TextExtractor
	translator TextTranslator
	logger     Logger
}

func NewJob(docs document.DocumentRepository, files storage.FileStore, extractor TextExtractor, translator TextTranslator, logger Logger) *Job {
	return &Job{
		docs:       docs,
		files:      files,
		extractor:  extractor,
		translator: translator,
		logger:     logger,
	}
}

// Handle adapts Run to a queue handler.
func (j *Job) Handle(ctx context.Context, documentID uint) error {
	if res := j.Run(ctx, documentID); res.Err != nil {
		return res.Err
	}
	return nil
}

// Run never panics and never returns an error; every outcome is in Result.
func (j *Job) Run(ctx context.Context, documentID uint) (res Result) {
	start := time.Now()
	res.DocumentID = documentID

	defer func() {
		if r := recover(); r != nil {
			j.logger.Error("translation job panicked", "document_id", documentID, "panic", fmt.Sprint(r))
			res = j.fail(ctx, documentID, KindInternal, fmt.Sprintf("internal error: %v", r))
		}
	}()

	doc, err := j.docs.FindByID(ctx, documentID)
	if errors.Is(err, document.ErrDocumentNotFound) {
		j.logger.Warn("translation job for missing document", "document_id", documentID)
		return Result{DocumentID: documentID, Status: domain.DocumentFailed, Err: &JobError{Kind: KindNotFound, Message: "document not found"}}
	}
	if err != nil {
		return j.fail(ctx, documentID, KindInternal, err.Error())
	}

	content, err := j.files.Read(ctx, doc.FilePath)
	if err != nil {
		return j.fail(ctx, documentID, KindStorage, err.Error())
	}

	text := j.extractor.ExtractBytes(content)
	if text == "" {
		j.logger.Warn("no text extracted", "document_id", documentID, "filename", doc.Filename)
		return j.complete(ctx, documentID, domain.EmptyExtractionText, start)
	}

	translated, err := j.translator.Translate(ctx, text, doc.TargetLanguage)
	if err != nil {
		return j.fail(ctx, documentID, KindTranslation, err.Error())
	}
	return j.complete(ctx, documentID, translated, start)
}

func (j *Job) complete(ctx context.Context, documentID uint, text string, start time.Time) Result {
	if err := j.docs.UpdateResult(context.WithoutCancel(ctx), documentID, domain.DocumentCompleted, text, ""); err != nil {
		j.logger.Error("failed to persist translation", "document_id", documentID, "error", err)
		return Result{DocumentID: documentID, Status: domain.DocumentFailed, Err: &JobError{Kind: KindStorage, Message: err.Error()}}
	}
	j.logger.Info("translation completed",
		"document_id", documentID,
		"chars", len([]rune(text)),
		"duration", time.Since(start).String())
	return Result{DocumentID: documentID, Status: domain.DocumentCompleted, Text: text}
}

// fail records the failure on the row. The write ignores cancellation so a
// timed-out job still leaves a terminal status behind.
func (j *Job) fail(ctx context.Context, documentID uint, kind ErrorKind, msg string) Result {
	j.logger.Error("translation failed", "document_id", documentID, "kind", kind, "error", msg)
	content := domain.FailedContentPrefix + msg
	if err := j.docs.UpdateResult(context.WithoutCancel(ctx), documentID, domain.DocumentFailed, content, string(kind)); err != nil {
		j.logger.Error("failed to persist failure status", "document_id", documentID, "error", err)
	}
	return Result{DocumentID: documentID, Status: domain.DocumentFailed, Err: &JobError{Kind: kind, Message: msg}}
}
