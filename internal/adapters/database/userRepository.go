package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"postbot/internal/core/user"
)

// UserRepositoryDatabase implements UserRepository on gorm
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase constructor of UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// chat users are created with a telegram id only, web users
			// with a username only
			if u.TelegramID != nil {
				return nil, user.ErrTelegramIDTaken
			}
			return nil, user.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return repo.first(ctx, "id = ?", id)
}

func (repo *UserRepositoryDatabase) FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	return repo.first(ctx, "telegram_id = ?", telegramID)
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return repo.first(ctx, "username = ?", username)
}

func (repo *UserRepositoryDatabase) first(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
