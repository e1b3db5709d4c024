// File: internal/services/user_services/user_service.go
package user_services

import (
	"context"
	"strings"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/repository/user"
	"github.com/iyunix/go-legalist/internal/storage"
)

// UserService manages a signed-in user's own account.
type UserService struct {
	userRepo user.UserRepository
	docRepo  document.DocumentRepository
	files    storage.FileStore
	logger   Logger
}

func NewUserService(userRepo user.UserRepository, docRepo document.DocumentRepository, files storage.FileStore, logger Logger) *UserService {
	return &UserService{userRepo: userRepo, docRepo: docRepo, files: files, logger: logger}
}

// ProfileUpdate holds optional profile changes; nil fields are left alone.
type ProfileUpdate struct {
	FullName        *string `json:"full_name"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password"`
}

func (s *UserService) Me(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateProfile applies the requested changes. Changing the password needs
// the current one.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*domain.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email != "" && email != u.Email {
			taken, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, user.ErrEmailTaken
			}
			u.Email = email
		}
	}

	if update.FullName != nil && strings.TrimSpace(*update.FullName) != "" {
		u.FullName = strings.TrimSpace(*update.FullName)
	}

	if update.NewPassword != nil && *update.NewPassword != "" {
		if update.CurrentPassword == nil || *update.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if err := u.ValidatePassword(*update.CurrentPassword); err != nil {
			return nil, ErrCurrentPasswordWrong
		}
		if err := u.HashPassword(*update.NewPassword); err != nil {
			return nil, newValidationError(err.Error())
		}
	}

	if err := u.IsValid(); err != nil {
		return nil, newValidationError(err.Error())
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", "user_id", u.ID)
	return u, nil
}

// DeleteAccount removes the user and everything they own. Stored files are
// removed after the rows; a file that cannot be removed is only logged.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	docs, err := s.docRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	for _, d := range docs {
		if err := s.files.Delete(ctx, d.FilePath); err != nil {
			s.logger.Warn("could not remove stored file", "document_id", d.ID, "error", err)
		}
	}
	s.logger.Info("account deleted", "user_id", userID, "documents", len(docs))
	return nil
}
