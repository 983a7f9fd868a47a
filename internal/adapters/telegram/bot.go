package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"postbot/internal/config"
	"postbot/internal/workers"
)

const pollTimeoutSeconds = 60

// NewBotAPI logs in to the Bot API with the configured token.
func NewBotAPI(conf config.Bot) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(conf.Token)
	if err != nil {
		return nil, fmt.Errorf("tgbotapi.NewBotAPI: %w", err)
	}
	api.Debug = conf.Debug
	return api, nil
}

// Bot long-polls the Bot API and feeds updates to the worker pool.
type Bot struct {
	api    *tgbotapi.BotAPI
	worker *workers.UpdateWorker
	logger *zap.Logger
}

func NewBot(api *tgbotapi.BotAPI, worker *workers.UpdateWorker, logger *zap.Logger) *Bot {
	return &Bot{api: api, worker: worker, logger: logger}
}

// Run blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		b.logger.Warn("⚠️ Could not publish bot commands", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("🤖 Bot is polling", zap.String("username", b.api.Self.UserName))
	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()
	return b.worker.Run(ctx, updates)
}
