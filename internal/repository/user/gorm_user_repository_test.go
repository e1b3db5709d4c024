package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/repository/user"
	"github.com/iyunix/go-legalist/internal/testutil"
)

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := user.NewGormUserRepository(testutil.NewDB(t))

	_, err := repo.Create(ctx, &domain.User{Email: "a@firm.test", Password: "x"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.User{Email: " A@Firm.test", Password: "x"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	u, err := repo.FindByEmail(ctx, "A@FIRM.TEST")
	require.NoError(t, err)
	assert.Equal(t, "a@firm.test", u.Email)

	_, err = repo.FindByEmail(ctx, "b@firm.test")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestCountRelated(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := user.NewGormUserRepository(db)

	u, err := repo.Create(ctx, &domain.User{Email: "c@firm.test", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.ChatSession{UserID: &u.ID, Title: "t"}).Error)
	require.NoError(t, db.Create(&domain.ChatSession{UserID: &u.ID, Title: "t"}).Error)
	require.NoError(t, db.Create(&domain.Schedule{UserID: u.ID, CaseName: "c", CourtDate: time.Now(), Status: "Scheduled"}).Error)

	counts, err := repo.CountRelated(ctx, []uint{u.ID, 999})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[u.ID].ChatSessions)
	assert.EqualValues(t, 1, counts[u.ID].Schedules)
	assert.Zero(t, counts[u.ID].Documents)
	assert.Zero(t, counts[999])
}

func TestSearchPagination(t *testing.T) {
	ctx := context.Background()
	repo := user.NewGormUserRepository(testutil.NewDB(t))
	for _, e := range []string{"alpha@x.test", "beta@x.test", "alphonse@y.test"} {
		_, err := repo.Create(ctx, &domain.User{Email: e, Password: "x"})
		require.NoError(t, err)
	}

	users, total, err := repo.FindAllWithPaginationAndSearch(ctx, 1, 1, "alph")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, "alpha@x.test", users[0].Email)
}

func TestDeleteCascadesOwnedRows(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := user.NewGormUserRepository(db)

	u, err := repo.Create(ctx, &domain.User{Email: "d@firm.test", Password: "x"})
	require.NoError(t, err)
	session := &domain.ChatSession{UserID: &u.ID, Title: "t"}
	require.NoError(t, db.Create(session).Error)
	require.NoError(t, db.Create(&domain.ChatMessage{SessionID: session.ID, Role: domain.RoleUser, Content: "hi"}).Error)
	require.NoError(t, db.Create(&domain.Document{UserID: u.ID, Filename: "a.pdf", FilePath: "k", Status: domain.DocumentPending}).Error)

	require.NoError(t, repo.Delete(ctx, u.ID))

	var n int64
	require.NoError(t, db.Model(&domain.ChatMessage{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&domain.Document{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), user.ErrUserNotFound)
}
