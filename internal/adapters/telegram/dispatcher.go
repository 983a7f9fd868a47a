// Package telegram turns chat updates into post operations and sends exactly
// one reply per update.
package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"postbot/internal/config"
	postEntity "postbot/internal/core/post"
	"postbot/internal/metrics"
	postPort "postbot/internal/ports/post"
	sessionPort "postbot/internal/ports/session"
	userPort "postbot/internal/ports/user"
)

// Sender is the part of *tgbotapi.BotAPI the dispatcher talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type UserUseCase interface {
	EnsureTelegramUser(ctx context.Context, telegramID int64, displayName string) (*userPort.UserDTO, bool, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*userPort.UserDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, title, description string, authorID int64) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, id int64) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context) ([]*postPort.PostDTO, error)
	ListPostsByAuthor(ctx context.Context, authorID int64) ([]*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, id int64, changes postEntity.Changes) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, id int64) error
}

// Options selects the trigger style and which posts a listing shows.
type Options struct {
	Mode      string
	ListScope string
}

const (
	outcomeOK            = "ok"
	outcomeUsage         = "usage"
	outcomeType          = "type"
	outcomeNotFound      = "not_found"
	outcomeNotRegistered = "not_registered"
	outcomeError         = "error"
)

type reply struct {
	text    string
	markup  interface{}
	outcome string
}

type handlerFunc func(ctx context.Context, msg *tgbotapi.Message) (reply, error)

type menuItem struct {
	action  string
	handler handlerFunc
}

type Dispatcher struct {
	sender   Sender
	users    UserUseCase
	posts    PostUseCase
	pending  sessionPort.PendingActionStore
	opts     Options
	logger   *zap.Logger
	metrics  *metrics.Metrics
	commands map[string]handlerFunc
	menu     map[string]menuItem
}

// NewDispatcher wires the handlers. pending is only used in menu mode and may
// be nil otherwise; m may be nil.
func NewDispatcher(sender Sender, users UserUseCase, posts PostUseCase, pending sessionPort.PendingActionStore, opts Options, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if opts.Mode == "" {
		opts.Mode = config.BotModeCommands
	}
	if opts.ListScope == "" {
		opts.ListScope = config.ListScopeOwn
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		sender:  sender,
		users:   users,
		posts:   posts,
		pending: pending,
		opts:    opts,
		logger:  logger,
		metrics: m,
	}
	d.commands = map[string]handlerFunc{
		"start":  d.start,
		"help":   d.help,
		"create": d.createCommand,
		"list":   d.list,
		"view":   d.view,
		"edit":   d.editCommand,
		"delete": d.deleteCommand,
	}
	d.menu = map[string]menuItem{
		labelCreate: {action: "menu_create", handler: d.arm(actionCreate, msgArmCreate)},
		labelList:   {action: "menu_list", handler: d.list},
		labelEdit:   {action: "menu_edit", handler: d.arm(actionEdit, msgArmEdit)},
		labelDelete: {action: "menu_delete", handler: d.arm(actionDelete, msgArmDelete)},
		labelHelp:   {action: "menu_help", handler: d.help},
	}
	return d
}

func (d *Dispatcher) menuMode() bool {
	return d.opts.Mode == config.BotModeMenu && d.pending != nil
}

// HandleUpdate processes one update. Updates that carry neither a message
// nor a callback are ignored.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		d.handleMessage(ctx, update.Message)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		d.logger.Debug("Skipping message without sender", zap.Int("messageID", msg.MessageID))
		return
	}

	action, handler, err := d.route(ctx, msg)
	var r reply
	if err == nil {
		r, err = handler(ctx, msg)
	}
	if err != nil {
		r = d.fail(action, msg.Chat.ID, err)
	}
	d.send(msg.Chat.ID, action, r)
}

func (d *Dispatcher) route(ctx context.Context, msg *tgbotapi.Message) (string, handlerFunc, error) {
	if msg.IsCommand() {
		name := strings.ToLower(msg.Command())
		if h, ok := d.commands[name]; ok {
			return name, h, nil
		}
		return "unknown", d.unknownCommand, nil
	}
	if !d.menuMode() {
		return "text", d.textHint, nil
	}
	if item, ok := d.menu[strings.TrimSpace(msg.Text)]; ok {
		return item.action, item.handler, nil
	}

	pending, err := d.pending.Pop(ctx, msg.Chat.ID)
	if err != nil {
		return "text", nil, err
	}
	switch pending {
	case actionCreate:
		return actionCreate, d.createFromLine, nil
	case actionEdit:
		return actionEdit, d.editFromLine, nil
	case actionDelete:
		return actionDelete, d.deleteFromText, nil
	}
	return "text", d.textHint, nil
}

func (d *Dispatcher) send(chatID int64, action string, r reply) {
	msg := tgbotapi.NewMessage(chatID, truncate(r.text))
	if r.markup != nil {
		msg.ReplyMarkup = r.markup
	}
	if _, err := d.sender.Send(msg); err != nil {
		d.logger.Error("❌ Error sending reply", zap.Int64("chatID", chatID), zap.String("action", action), zap.Error(err))
	}
	if d.metrics != nil {
		d.metrics.BotUpdates.WithLabelValues(action, r.outcome).Inc()
	}
	d.logger.Debug("Handled update", zap.Int64("chatID", chatID), zap.String("action", action), zap.String("outcome", r.outcome))
}

func (d *Dispatcher) fail(action string, chatID int64, err error) reply {
	d.logger.Error("❌ Error handling update", zap.String("action", action), zap.Int64("chatID", chatID), zap.Error(err))
	return reply{text: msgApology, outcome: outcomeError}
}

func ok(text string) reply {
	return reply{text: text, outcome: outcomeOK}
}

func usage(text string) reply {
	return reply{text: text, outcome: outcomeUsage}
}

func notFound() reply {
	return reply{text: msgNotFound, outcome: outcomeNotFound}
}

func typeError() reply {
	return reply{text: msgTypeError, outcome: outcomeType}
}
