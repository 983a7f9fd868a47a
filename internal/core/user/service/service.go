package userapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"

	userEntity "postbot/internal/core/user"
	userPort "postbot/internal/ports/user"
)

const tokenIssuer = "postbot"

// UserService manages chat and web identities
type UserService struct {
	UserRepository userPort.UserRepository
	jwtKey         []byte
	tokenTTL       time.Duration
	now            func() time.Time
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &UserService{
		UserRepository: repo,
		jwtKey:         jwtKey,
		tokenTTL:       tokenTTL,
		now:            time.Now,
	}
}

// EnsureTelegramUser returns the user bound to telegramID, creating it on the
// first contact. created reports whether a new record was written.
func (s *UserService) EnsureTelegramUser(ctx context.Context, telegramID int64, displayName string) (*userPort.UserDTO, bool, error) {
	existing, err := s.UserRepository.FindByTelegramID(ctx, telegramID)
	if err == nil {
		return userPort.ToDTO(existing), false, nil
	}
	if !errors.Is(err, userEntity.ErrNotFound) {
		return nil, false, err
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		TelegramID:  &telegramID,
		DisplayName: displayName,
	})
	if errors.Is(err, userEntity.ErrTelegramIDTaken) {
		// a concurrent /start from the same account got there first
		existing, err := s.UserRepository.FindByTelegramID(ctx, telegramID)
		if err != nil {
			return nil, false, err
		}
		return userPort.ToDTO(existing), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create telegram user %d: %w", telegramID, err)
	}
	return userPort.ToDTO(u), true, nil
}

func (s *UserService) FindByTelegramID(ctx context.Context, telegramID int64) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return userPort.ToDTO(u), nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return userPort.ToDTO(u), nil
}

// RegisterUser creates a web account
func (s *UserService) RegisterUser(ctx context.Context, username, password string) (*userPort.UserDTO, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, userEntity.ErrEmptyUsername
	}
	if _, err := s.UserRepository.FindByUsername(ctx, username); err == nil {
		return nil, userEntity.ErrUsernameTaken
	} else if !errors.Is(err, userEntity.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Username:     &username,
		DisplayName:  username,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		return nil, err
	}
	return userPort.ToDTO(u), nil
}

// LoginUser checks the password and issues a JWT
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, userEntity.ErrNotFound) {
			return nil, userEntity.ErrInvalidCredentials
		}
		return nil, err
	}
	// chat-only accounts have no password and cannot log in
	if u.PasswordHash == "" {
		return nil, userEntity.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, userEntity.ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.tokenTTL)
	token, err := s.generateJWT(u, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func (s *UserService) generateJWT(u *userEntity.User, expiresAt time.Time) (string, error) {
	claims := &jwt.StandardClaims{
		Id:        uuid.Must(uuid.NewV4()).String(),
		Subject:   strconv.FormatInt(u.ID, 10),
		Issuer:    tokenIssuer,
		IssuedAt:  s.now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// ParseToken validates a token issued by LoginUser and returns its user id.
func (s *UserService) ParseToken(tokenString string) (int64, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return 0, userEntity.ErrInvalidToken
	}
	if claims.Issuer != tokenIssuer {
		return 0, userEntity.ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, userEntity.ErrInvalidToken
	}
	return id, nil
}
