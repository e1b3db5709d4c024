package user_services

import (
	"context"
	"errors"
	"strings"
)

// Logger interface for all user services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAccountDisabled         = errors.New("account is disabled")
	ErrInvalidResetToken       = errors.New("invalid or expired reset token")
	ErrCurrentPasswordRequired = errors.New("current password required to set a new password")
	ErrCurrentPasswordWrong    = errors.New("current password is incorrect")
)

// ValidationError wraps bad user input so handlers can answer 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(msg string) error { return &ValidationError{Message: msg} }

// TokenIssuer issues and validates access tokens.
type TokenIssuer interface {
	Generate(userID uint) (string, error)
	Validate(token string) (uint, error)
}

// ResetNotifier delivers a password reset link to the account owner.
// It reports whether the link was actually sent.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, link string) (bool, error)
}

// LogNotifier writes reset links to the log instead of sending mail.
type LogNotifier struct {
	Logger Logger
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, email, link string) (bool, error) {
	n.Logger.Info("password reset link (no mailer configured)", "email", maskEmail(email), "link", link)
	return false, nil
}

// maskEmail keeps the first characters of an address for logs.
func maskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if len(local) > 2 {
		local = local[:2]
	}
	if !found {
		return local + "****"
	}
	return local + "****@" + domain
}
