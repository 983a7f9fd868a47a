package userapp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userEntity "postbot/internal/core/user"
)

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  []*userEntity.User
}

func (m *memoryUsers) Create(_ context.Context, u *userEntity.User) (*userEntity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if u.Username != nil && existing.Username != nil && *u.Username == *existing.Username {
			return nil, userEntity.ErrUsernameTaken
		}
		if u.TelegramID != nil && existing.TelegramID != nil && *u.TelegramID == *existing.TelegramID {
			return nil, userEntity.ErrTelegramIDTaken
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users = append(m.users, u)
	return u, nil
}

func (m *memoryUsers) find(match func(*userEntity.User) bool) (*userEntity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, userEntity.ErrNotFound
}

func (m *memoryUsers) FindByID(_ context.Context, id int64) (*userEntity.User, error) {
	return m.find(func(u *userEntity.User) bool { return u.ID == id })
}

func (m *memoryUsers) FindByTelegramID(_ context.Context, telegramID int64) (*userEntity.User, error) {
	return m.find(func(u *userEntity.User) bool { return u.TelegramID != nil && *u.TelegramID == telegramID })
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*userEntity.User, error) {
	return m.find(func(u *userEntity.User) bool { return u.Username != nil && *u.Username == username })
}

// staleUsers misses the first telegram lookup, as if another /start for
// the same account committed between the read and the insert.
type staleUsers struct {
	*memoryUsers
	missed bool
}

func (s *staleUsers) FindByTelegramID(ctx context.Context, telegramID int64) (*userEntity.User, error) {
	if !s.missed {
		s.missed = true
		return nil, userEntity.ErrNotFound
	}
	return s.memoryUsers.FindByTelegramID(ctx, telegramID)
}

func TestEnsureTelegramUserLosesRace(t *testing.T) {
	ctx := context.Background()
	repo := &memoryUsers{}
	first, _, err := NewUserService(repo, []byte("secret"), time.Hour).EnsureTelegramUser(ctx, 42, "anna")
	require.NoError(t, err)

	svc := NewUserService(&staleUsers{memoryUsers: repo}, []byte("secret"), time.Hour)
	u, created, err := svc.EnsureTelegramUser(ctx, 42, "anna")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, u.ID)
	assert.Len(t, repo.users, 1)
}

func TestRegisterRejectsBlankUsername(t *testing.T) {
	repo := &memoryUsers{}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	_, err := svc.RegisterUser(context.Background(), "   ", "hunter22")
	assert.ErrorIs(t, err, userEntity.ErrEmptyUsername)
	assert.Empty(t, repo.users)
}

func TestEnsureTelegramUser(t *testing.T) {
	ctx := context.Background()
	repo := &memoryUsers{}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	u, created, err := svc.EnsureTelegramUser(ctx, 42, "anna")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, u.TelegramID)
	assert.EqualValues(t, 42, *u.TelegramID)
	assert.Equal(t, "anna", u.DisplayName)

	again, created, err := svc.EnsureTelegramUser(ctx, 42, "renamed")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Len(t, repo.users, 1)

	found, err := svc.FindByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = svc.FindByTelegramID(ctx, 7)
	assert.ErrorIs(t, err, userEntity.ErrNotFound)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(&memoryUsers{}, []byte("secret"), time.Hour)

	u, err := svc.RegisterUser(ctx, " boris ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "boris", u.Username)

	_, err = svc.RegisterUser(ctx, "boris", "another1")
	assert.ErrorIs(t, err, userEntity.ErrUsernameTaken)

	_, err = svc.LoginUser(ctx, "boris", "wrong-password")
	assert.ErrorIs(t, err, userEntity.ErrInvalidCredentials)

	_, err = svc.LoginUser(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, err, userEntity.ErrInvalidCredentials)

	res, err := svc.LoginUser(ctx, "boris", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Greater(t, res.ExpiresAt, time.Now().Unix())

	id, err := svc.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestLoginRejectsChatOnlyUser(t *testing.T) {
	ctx := context.Background()
	repo := &memoryUsers{}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	_, _, err := svc.EnsureTelegramUser(ctx, 42, "anna")
	require.NoError(t, err)
	name := "anna"
	repo.users[0].Username = &name

	_, err = svc.LoginUser(ctx, "anna", "")
	assert.ErrorIs(t, err, userEntity.ErrInvalidCredentials)
}

func TestParseTokenRejectsForeignAndExpiredTokens(t *testing.T) {
	ctx := context.Background()
	repo := &memoryUsers{}
	svc := NewUserService(repo, []byte("secret"), time.Hour)
	_, err := svc.RegisterUser(ctx, "boris", "hunter22")
	require.NoError(t, err)

	other := NewUserService(repo, []byte("another-secret"), time.Hour)
	res, err := other.LoginUser(ctx, "boris", "hunter22")
	require.NoError(t, err)
	_, err = svc.ParseToken(res.Token)
	assert.ErrorIs(t, err, userEntity.ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	res, err = svc.LoginUser(ctx, "boris", "hunter22")
	require.NoError(t, err)
	_, err = svc.ParseToken(res.Token)
	assert.ErrorIs(t, err, userEntity.ErrInvalidToken)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, userEntity.ErrInvalidToken)
}
