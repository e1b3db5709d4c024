package user_services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/repository/passwordreset"
	"github.com/iyunix/go-legalist/internal/repository/user"
)

const ResetTokenTTL = time.Hour

// PasswordService runs the forgot/reset password flow.
type PasswordService struct {
	userRepo  user.UserRepository
	resetRepo passwordreset.Repository
	notifier  ResetNotifier
	appURL    string
	logger    Logger
	now       func() time.Time
}

func NewPasswordService(userRepo user.UserRepository, resetRepo passwordreset.Repository, notifier ResetNotifier, appURL string, logger Logger) *PasswordService {
	return &PasswordService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		notifier:  notifier,
		appURL:    strings.TrimRight(appURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

// ForgotPassword issues a one-hour reset token when the account exists.
// Unknown addresses get the same answer so accounts cannot be enumerated.
// The returned bool reports whether a notification was actually delivered.
func (s *PasswordService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		s.logger.Info("password reset requested for unknown email", "email", maskEmail(email))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	now := s.now()
	if _, err := s.resetRepo.DeleteExpired(ctx, now); err != nil {
		s.logger.Warn("could not prune expired reset tokens", "error", err)
	}

	token := &domain.PasswordResetToken{
		UserID:    u.ID,
		Token:     strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", ""),
		ExpiresAt: now.Add(ResetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return false, fmt.Errorf("store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s", s.appURL, url.QueryEscape(token.Token))
	sent, err := s.notifier.SendPasswordReset(ctx, u.Email, link)
	if err != nil {
		s.logger.Error("password reset notification failed", "user_id", u.ID, "error", err)
		return false, nil
	}
	return sent, nil
}

// ResetPassword consumes a valid token and sets the new password.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}
	t, err := s.resetRepo.FindByToken(ctx, token)
	if errors.Is(err, passwordreset.ErrTokenNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	now := s.now()
	if !t.IsValid(now) {
		return ErrInvalidResetToken
	}

	u, err := s.userRepo.FindByID(ctx, t.UserID)
	if err != nil {
		return ErrInvalidResetToken
	}
	if err := u.HashPassword(newPassword); err != nil {
		return newValidationError(err.Error())
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return err
	}
	if err := s.resetRepo.MarkUsed(ctx, t.ID, now); err != nil {
		return err
	}
	s.logger.Info("password reset completed", "user_id", u.ID)
	return nil
}
