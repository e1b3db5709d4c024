package user_services

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-legalist/internal/auth"
	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/logging"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/repository/passwordreset"
	"github.com/iyunix/go-legalist/internal/repository/user"
	"github.com/iyunix/go-legalist/internal/storage"
	"github.com/iyunix/go-legalist/internal/testutil"
)

type capturingNotifier struct {
	email string
	link  string
}

func (n *capturingNotifier) SendPasswordReset(_ context.Context, email, link string) (bool, error) {
	n.email, n.link = email, link
	return true, nil
}

type fixture struct {
	users     user.UserRepository
	docs      document.DocumentRepository
	files     *storage.DiskStore
	auth      *AuthService
	accounts  *UserService
	passwords *PasswordService
	notifier  *capturingNotifier
	tokens    *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger := &logging.NoOpLogger{}
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	files, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		users:    user.NewGormUserRepository(db),
		docs:     document.NewDocumentRepository(db),
		files:    files,
		notifier: &capturingNotifier{},
		tokens:   tokens,
	}
	f.auth = NewAuthService(f.users, tokens, logger)
	f.accounts = NewUserService(f.users, f.docs, files, logger)
	f.passwords = NewPasswordService(f.users, passwordreset.NewGormRepository(db), f.notifier, "http://app.test/", logger)
	return f
}

func strPtr(s string) *string { return &s }

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, token, err := f.auth.Register(ctx, "Advocate@Example.com", "password123", "A. Advocate")
	require.NoError(t, err)
	assert.Equal(t, "advocate@example.com", u.Email)
	assert.False(t, u.IsAdmin)

	id, err := f.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, _, err = f.auth.Login(ctx, "advocate@example.com", "password123")
	require.NoError(t, err)

	_, _, err = f.auth.Login(ctx, "advocate@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.auth.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateAndShortPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.auth.Register(ctx, "a@example.com", "password123", "A")
	require.NoError(t, err)
	_, _, err = f.auth.Register(ctx, "a@example.com", "password123", "A")
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	_, _, err = f.auth.Register(ctx, "b@example.com", "short", "B")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, token, err := f.auth.Register(ctx, "a@example.com", "password123", "A")
	require.NoError(t, err)

	got, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	admin, created, err := f.auth.SeedAdmin(ctx, "admin", "1234567890")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin)

	again, created, err := f.auth.SeedAdmin(ctx, "admin", "1234567890")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	_, _, err = f.auth.Login(ctx, "admin", "1234567890")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _, err := f.auth.Register(ctx, "a@example.com", "password123", "A")
	require.NoError(t, err)
	_, _, err = f.auth.Register(ctx, "taken@example.com", "password123", "T")
	require.NoError(t, err)

	_, err = f.accounts.UpdateProfile(ctx, u.ID, ProfileUpdate{Email: strPtr("taken@example.com")})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	_, err = f.accounts.UpdateProfile(ctx, u.ID, ProfileUpdate{NewPassword: strPtr("newpassword1")})
	assert.ErrorIs(t, err, ErrCurrentPasswordRequired)

	_, err = f.accounts.UpdateProfile(ctx, u.ID, ProfileUpdate{CurrentPassword: strPtr("nope"), NewPassword: strPtr("newpassword1")})
	assert.ErrorIs(t, err, ErrCurrentPasswordWrong)

	updated, err := f.accounts.UpdateProfile(ctx, u.ID, ProfileUpdate{
		FullName:        strPtr("Senior Advocate"),
		CurrentPassword: strPtr("password123"),
		NewPassword:     strPtr("newpassword1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Advocate", updated.FullName)

	_, _, err = f.auth.Login(ctx, "a@example.com", "newpassword1")
	assert.NoError(t, err)
}

func TestDeleteAccountRemovesFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _, err := f.auth.Register(ctx, "a@example.com", "password123", "A")
	require.NoError(t, err)

	key := storage.NewKey(u.ID, "brief.pdf")
	require.NoError(t, f.files.Save(ctx, key, strings.NewReader("pdf"), 3, "application/pdf"))
	_, err = f.docs.Create(ctx, &domain.Document{UserID: u.ID, Filename: "brief.pdf", FilePath: key})
	require.NoError(t, err)

	require.NoError(t, f.accounts.DeleteAccount(ctx, u.ID))

	_, err = f.users.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = f.files.Read(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _, err := f.auth.Register(ctx, "a@example.com", "password123", "A")
	require.NoError(t, err)

	sent, err := f.passwords.ForgotPassword(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, sent)
	require.True(t, strings.HasPrefix(f.notifier.link, "http://app.test/auth/reset-password?token="))

	parsed, err := url.Parse(f.notifier.link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	require.NoError(t, f.passwords.ResetPassword(ctx, token, "brandnewpass"))
	_, _, err = f.auth.Login(ctx, "a@example.com", "brandnewpass")
	assert.NoError(t, err)

	// tokens are single use
	assert.ErrorIs(t, f.passwords.ResetPassword(ctx, token, "anotherpass1"), ErrInvalidResetToken)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)
	sent, err := f.passwords.ForgotPassword(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, f.notifier.link)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _, err := f.auth.Register(ctx, "a@example.com", "password123", "A")
	require.NoError(t, err)

	_, err = f.passwords.ForgotPassword(ctx, "a@example.com")
	require.NoError(t, err)
	parsed, _ := url.Parse(f.notifier.link)

	f.passwords.now = func() time.Time { return time.Now().Add(2 * ResetTokenTTL) }
	err = f.passwords.ResetPassword(ctx, parsed.Query().Get("token"), "brandnewpass")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "ad****@example.com", maskEmail("advocate@example.com"))
	assert.Equal(t, "ad****", maskEmail("admin"))
}
