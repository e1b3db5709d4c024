package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-legalist/internal/domain"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "chat_sessions", "chat_messages", "documents", "schedules", "password_reset_tokens"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn(&domain.Document{}, "error_kind"))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("sqlite://")
	assert.Error(t, err)
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://u:p@localhost/db"))
	assert.True(t, isPostgres("postgresql://localhost/db"))
	assert.False(t, isPostgres("legal_assistant.db"))
}
