package post

import (
	"context"
	"time"

	"postbot/internal/core/post"
)

// PostRepository is the storage port for posts. Every call is one statement;
// callers never share a transaction across calls.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id int64) (*post.Post, error)
	FindAll(ctx context.Context) ([]*post.Post, error)
	FindByAuthorID(ctx context.Context, authorID int64) ([]*post.Post, error)
	Update(ctx context.Context, id int64, changes post.Changes) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// DTOs for the use cases
type PostDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorID    int64     `json:"author_id"`
	AuthorName  string    `json:"author_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToDTO(p *post.Post) *PostDTO {
	return &PostDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		AuthorID:    p.AuthorID,
		AuthorName:  p.Author.Name(),
		CreatedAt:   p.CreatedAt,
	}
}
