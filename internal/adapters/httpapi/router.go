package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"postbot/internal/adapters/httpapi/middleware"
	postEntity "postbot/internal/core/post"
	"postbot/internal/metrics"
	postPort "postbot/internal/ports/post"
	sessionPort "postbot/internal/ports/session"
	userPort "postbot/internal/ports/user"
)

// UserUseCase is what the web pages need from the user service.
type UserUseCase interface {
	middleware.Authenticator
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, username, password string) (*userPort.UserDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, title, description string, authorID int64) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, id int64) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context) ([]*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, id int64, changes postEntity.Changes) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, id int64) error
}

// Deps bundles what SetupRoutes injects into the controllers.
type Deps struct {
	Users    UserUseCase
	Posts    PostUseCase
	Flash    sessionPort.FlashStore
	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// SetupRoutes only wires routes; the use cases come from outside.
func SetupRoutes(deps Deps) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger), middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.SetHTMLTemplate(tmpl)

	p := &pages{flash: deps.Flash, logger: deps.Logger}
	uc := NewUserController(deps.Users, p)
	pc := NewPostController(deps.Posts, p)

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// login and registration are open
	r.GET("/login", uc.LoginForm)
	r.POST("/login", uc.Login)
	r.GET("/register", uc.RegisterForm)
	r.POST("/register", uc.Register)
	r.POST("/logout", uc.Logout)

	auth := r.Group("/", middleware.JWTAuthMiddleware(deps.Users, deps.Logger))
	auth.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/posts") })
	auth.GET("/posts", pc.List)
	auth.GET("/posts/new", pc.NewForm)
	auth.POST("/posts/new", pc.Create)
	auth.GET("/posts/:id", pc.Detail)
	auth.GET("/posts/:id/edit", pc.EditForm)
	auth.POST("/posts/:id/edit", pc.Update)
	auth.GET("/posts/:id/delete", pc.DeleteConfirm)
	auth.POST("/posts/:id/delete", pc.Delete)

	r.NoRoute(p.notFound)
	return r, nil
}
