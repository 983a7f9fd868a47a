package postapp

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postEntity "postbot/internal/core/post"
)

type memoryPosts struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*postEntity.Post
	err    error
}

func newMemoryPosts() *memoryPosts {
	return &memoryPosts{posts: map[int64]*postEntity.Post{}}
}

func (m *memoryPosts) Create(_ context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	p.ID = m.nextID
	stored := *p
	m.posts[p.ID] = &stored
	return p, nil
}

func (m *memoryPosts) FindByID(_ context.Context, id int64) (*postEntity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, postEntity.ErrNotFound
	}
	found := *p
	return &found, nil
}

func (m *memoryPosts) list(match func(*postEntity.Post) bool) []*postEntity.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*postEntity.Post
	for _, p := range m.posts {
		if match(p) {
			found := *p
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryPosts) FindAll(_ context.Context) ([]*postEntity.Post, error) {
	return m.list(func(*postEntity.Post) bool { return true }), nil
}

func (m *memoryPosts) FindByAuthorID(_ context.Context, authorID int64) ([]*postEntity.Post, error) {
	return m.list(func(p *postEntity.Post) bool { return p.AuthorID == authorID }), nil
}

func (m *memoryPosts) Update(_ context.Context, id int64, changes postEntity.Changes) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return 0, nil
	}
	if changes.Title != nil {
		p.Title = *changes.Title
	}
	if changes.Description != nil {
		p.Description = *changes.Description
	}
	return 1, nil
}

func (m *memoryPosts) Delete(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return 0, nil
	}
	delete(m.posts, id)
	return 1, nil
}

func strPtr(s string) *string { return &s }

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryPosts()
	svc := NewPostService(repo)
	fixed := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	dto, err := svc.CreatePost(ctx, " Вечер ", "Какой красивый закат", 7)
	require.NoError(t, err)
	assert.Equal(t, "Вечер", dto.Title)
	assert.Equal(t, "Какой красивый закат", dto.Description)
	assert.EqualValues(t, 7, dto.AuthorID)
	assert.Equal(t, fixed, dto.CreatedAt)

	_, err = svc.CreatePost(ctx, "", "text", 7)
	assert.ErrorIs(t, err, postEntity.ErrEmptyTitle)
	assert.Len(t, repo.posts, 1)

	repo.err = errors.New("db down")
	_, err = svc.CreatePost(ctx, "t", "d", 7)
	assert.EqualError(t, err, "db down")
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(newMemoryPosts())
	_, err := svc.CreatePost(ctx, "a", "1", 1)
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, "b", "2", 2)
	require.NoError(t, err)

	all, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.ListPostsByAuthor(ctx, 2)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "b", own[0].Title)

	none, err := svc.ListPostsByAuthor(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(newMemoryPosts())
	created, err := svc.CreatePost(ctx, "Вечер", "Какой красивый закат", 1)
	require.NoError(t, err)

	updated, err := svc.UpdatePost(ctx, created.ID, postEntity.Changes{Description: strPtr(" Новый текст ")})
	require.NoError(t, err)
	assert.Equal(t, "Новый текст", updated.Description)
	assert.Equal(t, "Вечер", updated.Title)

	_, err = svc.UpdatePost(ctx, 999, postEntity.Changes{Description: strPtr("Новый текст")})
	assert.ErrorIs(t, err, postEntity.ErrNotFound)

	_, err = svc.UpdatePost(ctx, created.ID, postEntity.Changes{Title: strPtr(" ")})
	assert.ErrorIs(t, err, postEntity.ErrEmptyTitle)

	_, err = svc.UpdatePost(ctx, created.ID, postEntity.Changes{Description: strPtr("")})
	assert.ErrorIs(t, err, postEntity.ErrEmptyDescription)
}

func TestDeletePostTwice(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(newMemoryPosts())
	created, err := svc.CreatePost(ctx, "t", "d", 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, created.ID))
	assert.ErrorIs(t, svc.DeletePost(ctx, created.ID), postEntity.ErrNotFound)
}
