package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"postbot/internal/core/post"
)

// PostRepositoryDatabase implements PostRepository on gorm
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase constructor of PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit("Author").Create(p).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id int64) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, post.ErrNotFound
		}
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindAll(ctx context.Context) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.db.WithContext(ctx).Preload("Author").Order("created_at, id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindByAuthorID(ctx context.Context, authorID int64) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at, id").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts of author %d: %w", authorID, err)
	}
	return posts, nil
}

// Update returns the number of rows the statement touched. Zero means the id
// is unknown, or (on MySQL) that the new values equal the stored ones.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, id int64, changes post.Changes) (int64, error) {
	fields := map[string]any{}
	if changes.Title != nil {
		fields["title"] = *changes.Title
	}
	if changes.Description != nil {
		fields["description"] = *changes.Description
	}
	if len(fields) == 0 {
		return 0, nil
	}

	res := repo.db.WithContext(ctx).Model(&post.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return 0, fmt.Errorf("update post %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id int64) (int64, error) {
	res := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&post.Post{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete post %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
