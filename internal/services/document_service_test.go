package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/jobs"
	"github.com/iyunix/go-legalist/internal/logging"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/storage"
	"github.com/iyunix/go-legalist/internal/testutil"
)

type recordingQueue struct {
	ids []uint
	err error
}

func (q *recordingQueue) Enqueue(_ context.Context, documentID uint) (jobs.JobStatus, error) {
	if q.err != nil {
		return jobs.JobStatus{}, q.err
	}
	q.ids = append(q.ids, documentID)
	return jobs.JobStatus{ID: "job-1", DocumentID: documentID, Status: jobs.StatusQueued}, nil
}

func newDocumentService(t *testing.T, q Enqueuer) (*DocumentService, document.DocumentRepository, *storage.DiskStore) {
	t.Helper()
	docs := document.NewDocumentRepository(testutil.NewDB(t))
	files, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return NewDocumentService(docs, files, q, &logging.NoOpLogger{}), docs, files
}

func upload(t *testing.T, svc *DocumentService, userID uint, body, lang string) *UploadResult {
	t.Helper()
	res, err := svc.Upload(context.Background(), userID, "../../petition.pdf", strings.NewReader(body), int64(len(body)), lang)
	require.NoError(t, err)
	return res
}

func TestUploadCreatesPendingRecordAndSchedules(t *testing.T) {
	q := &recordingQueue{}
	svc, _, files := newDocumentService(t, q)

	res := upload(t, svc, 1, "%PDF-1.4 body", " Hindi ")
	doc := res.Document
	assert.Equal(t, "job-1", res.JobID)
	assert.Equal(t, domain.DocumentPending, doc.Status)
	assert.Equal(t, domain.PlaceholderContent, doc.Content)
	assert.Equal(t, "Hindi", doc.TargetLanguage)
	assert.Equal(t, "petition.pdf", doc.Filename)
	assert.Equal(t, []uint{doc.ID}, q.ids)

	stored, err := files.Read(context.Background(), doc.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(stored))
}

func TestUploadDefaultsTargetLanguage(t *testing.T) {
	svc, _, _ := newDocumentService(t, &recordingQueue{})
	res := upload(t, svc, 1, "x", "")
	assert.Equal(t, domain.DefaultLanguage, res.Document.TargetLanguage)
}

func TestUploadQueueFailureMarksRecordFailed(t *testing.T) {
	svc, docs, _ := newDocumentService(t, &recordingQueue{err: errors.New("queue full")})

	res := upload(t, svc, 1, "x", "Hindi")
	assert.Empty(t, res.JobID)

	got, err := docs.FindByID(context.Background(), res.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentFailed, got.Status)
	assert.True(t, strings.HasPrefix(got.Content, domain.FailedContentPrefix))
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc, _, _ := newDocumentService(t, &recordingQueue{})
	_, err := svc.Upload(context.Background(), 1, "a.pdf", strings.NewReader(""), 0, "Hindi")
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestRetranslateResetsAndReschedules(t *testing.T) {
	ctx := context.Background()
	q := &recordingQueue{}
	svc, docs, _ := newDocumentService(t, q)
	doc := upload(t, svc, 1, "x", "Hindi").Document
	require.NoError(t, docs.UpdateResult(ctx, doc.ID, domain.DocumentFailed, "Translation failed: timeout", "translation"))

	res, err := svc.Retranslate(ctx, 1, doc.ID, "Tamil")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentPending, res.Document.Status)
	assert.Equal(t, "Tamil", res.Document.TargetLanguage)
	assert.Empty(t, res.Document.ErrorKind)
	assert.Equal(t, []uint{doc.ID, doc.ID}, q.ids)

	_, err = svc.Retranslate(ctx, 2, doc.ID, "")
	assert.ErrorIs(t, err, document.ErrDocumentNotFound)
}

func TestDocumentAccessIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	svc, _, files := newDocumentService(t, &recordingQueue{})
	doc := upload(t, svc, 1, "original bytes", "Hindi").Document

	_, err := svc.Get(ctx, 2, doc.ID)
	assert.ErrorIs(t, err, document.ErrDocumentNotFound)
	_, _, err = svc.Download(ctx, 2, doc.ID)
	assert.ErrorIs(t, err, document.ErrDocumentNotFound)

	got, body, err := svc.Download(ctx, 1, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "petition.pdf", got.Filename)
	assert.Equal(t, "original bytes", string(body))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, svc.Delete(ctx, 2, doc.ID), document.ErrDocumentNotFound)
	require.NoError(t, svc.Delete(ctx, 1, doc.ID))
	_, err = files.Read(ctx, doc.FilePath)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

type warnLog struct {
	logging.NoOpLogger
	mu    sync.Mutex
	warns []string
}

func (l *warnLog) Warn(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

type failingCreateRepo struct {
	document.DocumentRepository
}

func (failingCreateRepo) Create(context.Context, *domain.Document) (*domain.Document, error) {
	return nil, errors.New("database error creating document")
}

type undeletableStore struct {
	*storage.DiskStore
}

func (undeletableStore) Delete(context.Context, string) error {
	return errors.New("permission denied")
}

func TestUploadLogsOrphanCleanupFailure(t *testing.T) {
	disk, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	log := &warnLog{}
	q := &recordingQueue{}
	svc := NewDocumentService(failingCreateRepo{}, undeletableStore{disk}, q, log)

	_, err = svc.Upload(context.Background(), 1, "petition.pdf", strings.NewReader("x"), 1, "Hindi")
	require.Error(t, err)
	assert.Contains(t, log.warns, "could not remove orphaned upload")
	assert.Empty(t, q.ids)
}
