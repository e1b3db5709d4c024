package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/iyunix/go-legalist/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create validates and inserts a user. A duplicate email maps to ErrEmailTaken.
func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := user.IsValid(); err != nil {
		log.Printf("[UserRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := r.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[UserRepository] Database error during user creation: %v", err)
		return nil, errors.New("database error creating user")
	}

	log.Printf("[UserRepository] User created successfully with ID: %d", user.ID)
	return user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		return errors.New("invalid user ID")
	}
	if err := user.IsValid(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		log.Printf("[UserRepository] Database error during user update for ID %d: %v", user.ID, err)
		return errors.New("database error updating user")
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}

	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	if err != nil {
		log.Printf("[UserRepository] Database error checking email existence: %v", err)
		return false, errors.New("database error checking email")
	}
	return count > 0, nil
}

// FindAllWithPaginationAndSearch provides a paginated, searchable query for users.
func (r *gormUserRepository) FindAllWithPaginationAndSearch(ctx context.Context, page, limit int, search string) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	var users []domain.User
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.User{})
	if search != "" {
		searchTerm := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", searchTerm, searchTerm)
	}

	if err := query.Count(&total).Error; err != nil {
		log.Printf("[UserRepository] Database error counting users with search: %v", err)
		return nil, 0, errors.New("database error counting users")
	}

	offset := (page - 1) * limit
	if err := query.Order("id asc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		log.Printf("[UserRepository] Database error in paginated search query: %v", err)
		return nil, 0, errors.New("database error retrieving paginated users")
	}

	return users, total, nil
}

// CountRelated returns session, document and schedule counts for each user
// in three grouped queries.
func (r *gormUserRepository) CountRelated(ctx context.Context, userIDs []uint) (map[uint]RelatedCounts, error) {
	out := make(map[uint]RelatedCounts, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	type row struct {
		UserID uint
		N      int64
	}
	count := func(model interface{}) ([]row, error) {
		var rows []row
		err := r.db.WithContext(ctx).Model(model).
			Select("user_id, COUNT(*) AS n").
			Where("user_id IN ?", userIDs).
			Group("user_id").
			Scan(&rows).Error
		return rows, err
	}

	sessions, err := count(&domain.ChatSession{})
	if err != nil {
		log.Printf("[UserRepository] Database error counting sessions: %v", err)
		return nil, errors.New("database error counting related records")
	}
	docs, err := count(&domain.Document{})
	if err != nil {
		log.Printf("[UserRepository] Database error counting documents: %v", err)
		return nil, errors.New("database error counting related records")
	}
	schedules, err := count(&domain.Schedule{})
	if err != nil {
		log.Printf("[UserRepository] Database error counting schedules: %v", err)
		return nil, errors.New("database error counting related records")
	}

	for _, rr := range sessions {
		c := out[rr.UserID]
		c.ChatSessions = rr.N
		out[rr.UserID] = c
	}
	for _, rr := range docs {
		c := out[rr.UserID]
		c.Documents = rr.N
		out[rr.UserID] = c
	}
	for _, rr := range schedules {
		c := out[rr.UserID]
		c.Schedules = rr.N
		out[rr.UserID] = c
	}
	return out, nil
}

func (r *gormUserRepository) Delete(ctx context.Context, userID uint) error {
	if userID == 0 {
		return errors.New("invalid user ID")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessionIDs := tx.Model(&domain.ChatSession{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("session_id IN (?)", sessionIDs).Delete(&domain.ChatMessage{}).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{&domain.ChatSession{}, &domain.Document{}, &domain.Schedule{}, &domain.PasswordResetToken{}} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&domain.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err != nil {
		log.Printf("[UserRepository] Database error deleting user ID %d: %v", userID, err)
		return errors.New("database error deleting user")
	}

	log.Printf("[UserRepository] User deleted with ID: %d", userID)
	return nil
}

// handleFindError maps gorm errors without leaking query details.
func (r *gormUserRepository) handleFindError(err error, user *domain.User) (*domain.User, error) {
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	log.Printf("[UserRepository] Database query error: %v", err)
	return nil, errors.New("database query failed")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
