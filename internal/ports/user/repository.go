package user

import (
	"context"

	"postbot/internal/core/user"
)

// UserRepository is the storage port for users.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id int64) (*user.User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

// DTOs for the use cases
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	ID          int64  `json:"id"`
	TelegramID  *int64 `json:"telegram_id,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name"`
}

func ToDTO(u *user.User) *UserDTO {
	dto := &UserDTO{
		ID:          u.ID,
		TelegramID:  u.TelegramID,
		DisplayName: u.Name(),
	}
	if u.Username != nil {
		dto.Username = *u.Username
	}
	return dto
}
