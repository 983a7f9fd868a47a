package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrTelegramIDTaken    = errors.New("telegram id already registered")
	ErrEmptyUsername      = errors.New("username is empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// User links a Telegram account and/or a web login to the posts it authors.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	TelegramID   *int64    `gorm:"uniqueIndex"`
	Username     *string   `gorm:"type:varchar(150);uniqueIndex"` // web login, nil for chat-only users
	DisplayName  string    `gorm:"type:varchar(150);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Name is what the bot and the web pages call the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != nil {
		return *u.Username
	}
	return ""
}
