package postapp

import (
	"context"
	"errors"
	"strings"
	"time"

	postEntity "postbot/internal/core/post"
	postPort "postbot/internal/ports/post"
)

type PostService struct {
	PostRepository postPort.PostRepository
	now            func() time.Time
}

func NewPostService(postRepo postPort.PostRepository) *PostService {
	return &PostService{
		PostRepository: postRepo,
		now:            time.Now,
	}
}

// CreatePost validates and stores a new post authored by authorID
func (s *PostService) CreatePost(ctx context.Context, title, description string, authorID int64) (*postPort.PostDTO, error) {
	title, description, err := postEntity.Validate(title, description)
	if err != nil {
		return nil, err
	}

	created, err := s.PostRepository.Create(ctx, &postEntity.Post{
		Title:       title,
		Description: description,
		AuthorID:    authorID,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, err
	}
	return postPort.ToDTO(created), nil
}

func (s *PostService) GetPost(ctx context.Context, id int64) (*postPort.PostDTO, error) {
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return postPort.ToDTO(p), nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(posts), nil
}

func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID int64) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.FindByAuthorID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return toDTOs(posts), nil
}

// UpdatePost applies changes and returns the stored post. A missing post
// yields postEntity.ErrNotFound.
func (s *PostService) UpdatePost(ctx context.Context, id int64, changes postEntity.Changes) (*postPort.PostDTO, error) {
	changes, err := normalize(changes)
	if err != nil {
		return nil, err
	}

	affected, err := s.PostRepository.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	// zero rows is either a missing post or an update that changed nothing;
	// the read below tells them apart.
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		if affected == 0 && errors.Is(err, postEntity.ErrNotFound) {
			return nil, postEntity.ErrNotFound
		}
		return nil, err
	}
	return postPort.ToDTO(p), nil
}

func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	affected, err := s.PostRepository.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return postEntity.ErrNotFound
	}
	return nil
}

func normalize(changes postEntity.Changes) (postEntity.Changes, error) {
	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if err := postEntity.ValidateTitle(title); err != nil {
			return changes, err
		}
		changes.Title = &title
	}
	if changes.Description != nil {
		description := strings.TrimSpace(*changes.Description)
		if description == "" {
			return changes, postEntity.ErrEmptyDescription
		}
		changes.Description = &description
	}
	return changes, nil
}

func toDTOs(posts []*postEntity.Post) []*postPort.PostDTO {
	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, postPort.ToDTO(p))
	}
	return dtos
}
