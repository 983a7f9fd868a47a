package workers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// UpdateWorker drains the chat update channel with a fixed number of
// goroutines. With one worker, updates are handled strictly in order.
type UpdateWorker struct {
	Handler UpdateHandler
	Workers int
	Timeout time.Duration // per update, 0 disables
	Logger  *zap.Logger
}

func NewUpdateWorker(handler UpdateHandler, workers int, timeout time.Duration, logger *zap.Logger) *UpdateWorker {
	if workers <= 0 {
		workers = 1
	}
	return &UpdateWorker{
		Handler: handler,
		Workers: workers,
		Timeout: timeout,
		Logger:  logger,
	}
}

// Run blocks until ctx is cancelled or updates is closed.
func (w *UpdateWorker) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	w.Logger.Info("🚀 UpdateWorker started", zap.Int("workers", w.Workers))

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.Workers; i++ {
		g.Go(func() error {
			w.loop(ctx, updates)
			return nil
		})
	}
	err := g.Wait()

	w.Logger.Info("🛑 UpdateWorker stopped")
	return err
}

func (w *UpdateWorker) loop(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			w.process(ctx, update)
		}
	}
}

// process handles one update. A panicking handler is logged and the worker
// moves on to the next update.
func (w *UpdateWorker) process(ctx context.Context, update tgbotapi.Update) {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			w.Logger.Error("❌ Panic while handling update", zap.Int("updateID", update.UpdateID), zap.Any("panic", r))
		}
	}()

	w.Handler.HandleUpdate(ctx, update)
}
