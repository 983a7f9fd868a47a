package post

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"postbot/internal/core/user"
)

// MaxTitleLength is counted in runes.
const MaxTitleLength = 200

var (
	ErrNotFound         = errors.New("post not found")
	ErrEmptyTitle       = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title is too long")
	ErrEmptyDescription = errors.New("description is required")
)

type Post struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text;not null"`
	AuthorID    int64     `gorm:"not null;index"`
	Author      user.User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"not null"`
}

// Changes carries the fields an edit replaces. Nil fields are left as is.
type Changes struct {
	Title       *string
	Description *string
}

// Empty reports whether the edit touches nothing.
func (c Changes) Empty() bool {
	return c.Title == nil && c.Description == nil
}

// Validate trims title and description and checks them against the schema.
func Validate(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := ValidateTitle(title); err != nil {
		return "", "", err
	}
	if description == "" {
		return "", "", ErrEmptyDescription
	}
	return title, description, nil
}

func ValidateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
