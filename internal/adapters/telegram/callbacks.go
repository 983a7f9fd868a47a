package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	postEntity "postbot/internal/core/post"
)

// handleCallback answers an inline button press. The query is acknowledged
// first so the client stops showing its spinner.
func (d *Dispatcher) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := d.sender.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		d.logger.Warn("⚠️ Error acknowledging callback", zap.String("callbackID", cq.ID), zap.Error(err))
	}

	var chatID int64
	switch {
	case cq.Message != nil && cq.Message.Chat != nil:
		chatID = cq.Message.Chat.ID
	case cq.From != nil:
		chatID = cq.From.ID
	default:
		d.logger.Debug("Skipping callback without chat", zap.String("callbackID", cq.ID))
		return
	}

	action, id, err := parseCallbackData(cq.Data)
	switch {
	case errors.Is(err, errType):
		d.send(chatID, "callback", typeError())
		return
	case err != nil:
		d.send(chatID, "callback", usage(msgUnknownAction))
		return
	}

	var r reply
	switch action {
	case actionView:
		r, err = d.viewPost(ctx, id)
	case actionEdit:
		r, err = d.promptEdit(ctx, chatID, id)
	case actionDelete:
		r, err = d.remove(ctx, id)
	}
	label := "callback_" + action
	if err != nil {
		r = d.fail(label, chatID, err)
	}
	d.send(chatID, label, r)
}

func (d *Dispatcher) viewPost(ctx context.Context, id int64) (reply, error) {
	p, err := d.posts.GetPost(ctx, id)
	if errors.Is(err, postEntity.ErrNotFound) {
		return notFound(), nil
	}
	if err != nil {
		return reply{}, err
	}
	return ok(fmt.Sprintf(msgViewPost, p.Title, p.Description)), nil
}

// promptEdit shows the post and tells the user how to send the new text. In
// menu mode the next free-text message is taken as the edit.
func (d *Dispatcher) promptEdit(ctx context.Context, chatID, id int64) (reply, error) {
	p, err := d.posts.GetPost(ctx, id)
	if errors.Is(err, postEntity.ErrNotFound) {
		return notFound(), nil
	}
	if err != nil {
		return reply{}, err
	}

	text := fmt.Sprintf(msgEditPrompt, p.Title, p.Description)
	if d.menuMode() {
		if err := d.pending.Set(ctx, chatID, actionEdit); err != nil {
			return reply{}, err
		}
		return ok(text + fmt.Sprintf(msgEditMenu, p.ID)), nil
	}
	return ok(text + fmt.Sprintf(msgEditHint, p.ID)), nil
}
