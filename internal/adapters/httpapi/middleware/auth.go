package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	userEntity "postbot/internal/core/user"
	userPort "postbot/internal/ports/user"
)

const (
	TokenCookie = "postbot_token"
	LoginPath   = "/login"

	userKey = "user"
)

// Authenticator resolves a session token to the user behind it.
type Authenticator interface {
	ParseToken(token string) (int64, error)
	GetUser(ctx context.Context, id int64) (*userPort.UserDTO, error)
}

// JWTAuthMiddleware reads the token cookie and stores the logged-in user in
// the gin context. Anonymous or expired sessions are sent to the login page.
func JWTAuthMiddleware(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(TokenCookie)
		if err != nil || token == "" {
			redirectToLogin(c)
			return
		}

		id, err := auth.ParseToken(token)
		if err != nil {
			ClearToken(c)
			redirectToLogin(c)
			return
		}

		u, err := auth.GetUser(c.Request.Context(), id)
		if errors.Is(err, userEntity.ErrNotFound) {
			ClearToken(c)
			redirectToLogin(c)
			return
		}
		if err != nil {
			logger.Error("❌ Error loading session user", zap.Int64("userID", id), zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(userKey, u)
		c.Next()
	}
}

// CurrentUser returns the user set by JWTAuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *userPort.UserDTO {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*userPort.UserDTO)
	return u
}

// SetToken stores a signed token in an HttpOnly cookie living maxAge seconds.
func SetToken(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func ClearToken(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
}
