package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	postEntity "postbot/internal/core/post"
)

// arm remembers that the chat picked action from the menu and asks for its
// input.
func (d *Dispatcher) arm(action, prompt string) handlerFunc {
	return func(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
		if err := d.pending.Set(ctx, msg.Chat.ID, action); err != nil {
			return reply{}, err
		}
		return ok(prompt), nil
	}
}

func (d *Dispatcher) createFromLine(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	title, description, err := parseCreateLine(msg.Text)
	if err != nil {
		return usage(msgCreateLineUsage), nil
	}
	return d.create(ctx, msg.From.ID, title, description, msgCreateLineUsage)
}

func (d *Dispatcher) editFromLine(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	id, title, description, err := parseEditLine(msg.Text)
	if errors.Is(err, errType) {
		return typeError(), nil
	}
	if err != nil {
		return usage(msgEditLineUsage), nil
	}
	return d.update(ctx, id, postEntity.Changes{Title: &title, Description: &description}, msgEditLineUsage)
}

func (d *Dispatcher) deleteFromText(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	id, err := parsePostID(msg.Text)
	if errors.Is(err, errType) {
		return typeError(), nil
	}
	if err != nil {
		return usage(msgArmDelete), nil
	}
	return d.remove(ctx, id)
}
