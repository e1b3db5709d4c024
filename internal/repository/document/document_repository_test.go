package document_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/testutil"
)

func newDoc(t *testing.T, repo document.DocumentRepository, userID uint) *domain.Document {
	t.Helper()
	doc, err := repo.Create(context.Background(), &domain.Document{
		UserID:         userID,
		Filename:       "petition.pdf",
		FilePath:       "1/petition.pdf",
		TargetLanguage: "Hindi",
		Content:        domain.PlaceholderContent,
	})
	require.NoError(t, err)
	return doc
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := document.NewDocumentRepository(testutil.NewDB(t))
	doc := newDoc(t, repo, 1)

	got, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentPending, got.Status)
	assert.Equal(t, domain.DefaultLanguage, got.OriginalLanguage)
	assert.False(t, got.UploadedAt.IsZero())
}

func TestUpdateResultLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := document.NewDocumentRepository(testutil.NewDB(t))
	doc := newDoc(t, repo, 1)

	require.NoError(t, repo.UpdateResult(ctx, doc.ID, domain.DocumentFailed, "Translation failed: boom", "translation"))
	require.NoError(t, repo.UpdateResult(ctx, doc.ID, domain.DocumentCompleted, "translated", ""))

	got, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentCompleted, got.Status)
	assert.Equal(t, "translated", got.Content)
	assert.Empty(t, got.ErrorKind)
}

func TestOwnershipScopedLookups(t *testing.T) {
	ctx := context.Background()
	repo := document.NewDocumentRepository(testutil.NewDB(t))
	mine := newDoc(t, repo, 1)
	newDoc(t, repo, 2)

	_, err := repo.FindByIDAndUserID(ctx, mine.ID, 2)
	assert.ErrorIs(t, err, document.ErrDocumentNotFound)

	docs, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestResetPending(t *testing.T) {
	ctx := context.Background()
	repo := document.NewDocumentRepository(testutil.NewDB(t))
	doc := newDoc(t, repo, 1)
	require.NoError(t, repo.UpdateResult(ctx, doc.ID, domain.DocumentFailed, "Translation failed: x", "translation"))

	require.NoError(t, repo.ResetPending(ctx, doc.ID, "Tamil"))
	got, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentPending, got.Status)
	assert.Equal(t, domain.PlaceholderContent, got.Content)
	assert.Equal(t, "Tamil", got.TargetLanguage)
	assert.Empty(t, got.ErrorKind)
}

func TestMissingDocument(t *testing.T) {
	ctx := context.Background()
	repo := document.NewDocumentRepository(testutil.NewDB(t))
	assert.ErrorIs(t, repo.UpdateResult(ctx, 42, domain.DocumentCompleted, "x", ""), document.ErrDocumentNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 42), document.ErrDocumentNotFound)
}
