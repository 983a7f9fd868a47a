// Package app wires configuration, storage and both front-ends into one
// application object.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	dbadapter "postbot/internal/adapters/database"
	"postbot/internal/adapters/httpapi"
	redisadapter "postbot/internal/adapters/redis"
	"postbot/internal/adapters/telegram"
	"postbot/internal/config"
	postapp "postbot/internal/core/post/service"
	userapp "postbot/internal/core/user/service"
	"postbot/internal/metrics"
	sessionPort "postbot/internal/ports/session"
	"postbot/internal/workers"
)

type App struct {
	conf   *config.Config
	logger *zap.Logger
	db     *gorm.DB
	redis  *redis.Client
	server *http.Server  // nil when the web front-end is off
	bot    *telegram.Bot // nil when the bot is off
}

// New opens the database (migrating it) and Redis, then builds whichever
// front-ends are enabled. Anything opened is closed again on error.
func New(ctx context.Context, conf *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{conf: conf, logger: logger}
	if err := a.build(ctx); err != nil {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("⚠️ Error closing resources after failed start", zap.Error(closeErr))
		}
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	conf, logger := a.conf, a.logger
	var err error

	a.db, err = config.OpenDB(conf.Database)
	if err != nil {
		return err
	}
	if err = config.Migrate(a.db); err != nil {
		return err
	}
	logger.Info("✅ Database migrations completed", zap.String("driver", conf.Database.Driver))

	a.redis, err = config.NewRedis(ctx, conf.Redis)
	if err != nil {
		return err
	}
	logger.Info("✅ Connected to Redis", zap.String("addr", conf.Redis.Addr))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	userRepo := dbadapter.NewUserRepositoryDatabase(a.db)
	postRepo := dbadapter.NewPostRepositoryDatabase(a.db)
	userSvc := userapp.NewUserService(userRepo, []byte(conf.JWTSecret), conf.JWTTTL)
	postSvc := postapp.NewPostService(postRepo)

	if conf.WebEnabled {
		if !conf.LogDevelopment {
			gin.SetMode(gin.ReleaseMode)
		}
		engine, err := httpapi.SetupRoutes(httpapi.Deps{
			Users:    userSvc,
			Posts:    postSvc,
			Flash:    redisadapter.NewFlashRepositoryRedis(a.redis),
			Gatherer: reg,
			Metrics:  m,
			Logger:   logger.Named("http"),
		})
		if err != nil {
			return err
		}
		a.server = &http.Server{
			Addr:         conf.App.Addr(),
			Handler:      engine,
			ReadTimeout:  conf.ReadTimeout,
			WriteTimeout: conf.WriteTimeout,
		}
	}

	if conf.BotEnabled {
		api, err := telegram.NewBotAPI(conf.Bot)
		if err != nil {
			return err
		}
		var pending sessionPort.PendingActionStore
		if conf.Bot.Mode == config.BotModeMenu {
			pending = redisadapter.NewPendingActionRepositoryRedis(a.redis, conf.Bot.PendingTTL)
		}
		dispatcher := telegram.NewDispatcher(api, userSvc, postSvc, pending, telegram.Options{
			Mode:      conf.Bot.Mode,
			ListScope: conf.Bot.ListScope,
		}, logger.Named("bot"), m)
		worker := workers.NewUpdateWorker(dispatcher, conf.Bot.Workers, conf.Bot.UpdateTimeout, logger.Named("worker"))
		a.bot = telegram.NewBot(api, worker, logger.Named("bot"))
	}
	return nil
}

// Handler is the web front-end's handler, or nil when it is disabled.
func (a *App) Handler() http.Handler {
	if a.server == nil {
		return nil
	}
	return a.server.Handler
}

// Run serves the enabled front-ends until ctx is cancelled or one of them
// fails. The web server gets ShutdownTimeout to finish in-flight requests.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.server != nil {
		g.Go(func() error {
			a.logger.Info("🌐 Web server listening", zap.String("addr", a.server.Addr))
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.conf.ShutdownTimeout)
			defer cancel()
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			return nil
		})
	}
	if a.bot != nil {
		g.Go(func() error {
			return a.bot.Run(ctx)
		})
	}

	err := g.Wait()
	a.logger.Info("🛑 App stopped")
	return err
}

// Close releases Redis and the SQL pool.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := config.CloseDB(a.db); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
