package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"postbot/internal/config"
	postEntity "postbot/internal/core/post"
	userEntity "postbot/internal/core/user"
	postPort "postbot/internal/ports/post"
)

func (d *Dispatcher) start(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	name := displayName(msg.From)
	_, created, err := d.users.EnsureTelegramUser(ctx, msg.From.ID, name)
	if err != nil {
		return reply{}, err
	}

	text := msgStart
	if created {
		text = fmt.Sprintf(msgWelcome, name) + "\n\n" + msgStart
	}
	r := ok(text)
	if d.menuMode() {
		r.markup = mainMenuKeyboard()
	}
	return r, nil
}

func (d *Dispatcher) help(_ context.Context, _ *tgbotapi.Message) (reply, error) {
	if d.menuMode() {
		r := ok(msgHelp + msgMenuHelpSuffix)
		r.markup = mainMenuKeyboard()
		return r, nil
	}
	return ok(msgHelp), nil
}

func (d *Dispatcher) unknownCommand(_ context.Context, _ *tgbotapi.Message) (reply, error) {
	return usage(msgUnknownCommand), nil
}

func (d *Dispatcher) textHint(_ context.Context, _ *tgbotapi.Message) (reply, error) {
	if d.menuMode() {
		r := usage(msgMenuHint)
		r.markup = mainMenuKeyboard()
		return r, nil
	}
	return usage(msgCommandsHint), nil
}

func (d *Dispatcher) createCommand(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	title, description, err := parseCreateArgs(strings.Fields(msg.CommandArguments()))
	if err != nil {
		return usage(msgCreateUsage), nil
	}
	return d.create(ctx, msg.From.ID, title, description, msgCreateUsage)
}

func (d *Dispatcher) create(ctx context.Context, telegramID int64, title, description, usageText string) (reply, error) {
	author, err := d.users.FindByTelegramID(ctx, telegramID)
	if errors.Is(err, userEntity.ErrNotFound) {
		return reply{text: msgNotRegistered, outcome: outcomeNotRegistered}, nil
	}
	if err != nil {
		return reply{}, err
	}

	created, err := d.posts.CreatePost(ctx, title, description, author.ID)
	switch {
	case errors.Is(err, postEntity.ErrTitleTooLong):
		return usage(msgTitleTooLong), nil
	case errors.Is(err, postEntity.ErrEmptyTitle), errors.Is(err, postEntity.ErrEmptyDescription):
		return usage(usageText), nil
	case err != nil:
		return reply{}, err
	}
	return ok(fmt.Sprintf(msgCreated, created.Title)), nil
}

func (d *Dispatcher) list(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	posts, err := d.scopedPosts(ctx, msg.From.ID)
	if err != nil {
		return reply{}, err
	}
	if len(posts) == 0 {
		return ok(d.emptyText()), nil
	}
	r := ok(d.listHeader())
	r.markup = postsKeyboard(posts)
	return r, nil
}

func (d *Dispatcher) view(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	posts, err := d.scopedPosts(ctx, msg.From.ID)
	if err != nil {
		return reply{}, err
	}
	if len(posts) == 0 {
		return ok(d.emptyText()), nil
	}

	lines := make([]string, 0, len(posts)+1)
	lines = append(lines, d.listHeader())
	for _, p := range posts {
		lines = append(lines, fmt.Sprintf(msgSummary, p.Title, p.Description))
	}
	return ok(strings.Join(lines, "\n\n")), nil
}

func (d *Dispatcher) editCommand(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	id, description, err := parseEditArgs(strings.Fields(msg.CommandArguments()))
	if errors.Is(err, errType) {
		return typeError(), nil
	}
	if err != nil {
		return usage(msgEditUsage), nil
	}
	return d.update(ctx, id, postEntity.Changes{Description: &description}, msgEditUsage)
}

func (d *Dispatcher) update(ctx context.Context, id int64, changes postEntity.Changes, usageText string) (reply, error) {
	updated, err := d.posts.UpdatePost(ctx, id, changes)
	switch {
	case errors.Is(err, postEntity.ErrNotFound):
		return notFound(), nil
	case errors.Is(err, postEntity.ErrTitleTooLong):
		return usage(msgTitleTooLong), nil
	case errors.Is(err, postEntity.ErrEmptyTitle), errors.Is(err, postEntity.ErrEmptyDescription):
		return usage(usageText), nil
	case err != nil:
		return reply{}, err
	}
	return ok(fmt.Sprintf(msgUpdated, updated.Title)), nil
}

func (d *Dispatcher) deleteCommand(ctx context.Context, msg *tgbotapi.Message) (reply, error) {
	id, err := parsePostID(msg.CommandArguments())
	if errors.Is(err, errType) {
		return typeError(), nil
	}
	if err != nil {
		return usage(msgDeleteUsage), nil
	}
	return d.remove(ctx, id)
}

func (d *Dispatcher) remove(ctx context.Context, id int64) (reply, error) {
	err := d.posts.DeletePost(ctx, id)
	if errors.Is(err, postEntity.ErrNotFound) {
		return notFound(), nil
	}
	if err != nil {
		return reply{}, err
	}
	return ok(msgDeleted), nil
}

// scopedPosts lists every post or only the sender's, depending on the
// configured scope. An unregistered sender owns nothing.
func (d *Dispatcher) scopedPosts(ctx context.Context, telegramID int64) ([]*postPort.PostDTO, error) {
	if d.opts.ListScope == config.ListScopeAll {
		return d.posts.ListPosts(ctx)
	}
	author, err := d.users.FindByTelegramID(ctx, telegramID)
	if errors.Is(err, userEntity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d.posts.ListPostsByAuthor(ctx, author.ID)
}

func (d *Dispatcher) listHeader() string {
	if d.opts.ListScope == config.ListScopeAll {
		return msgAllHeader
	}
	return msgOwnHeader
}

func (d *Dispatcher) emptyText() string {
	if d.opts.ListScope == config.ListScopeAll {
		return msgAllEmpty
	}
	return msgOwnEmpty
}

func displayName(from *tgbotapi.User) string {
	switch {
	case from.UserName != "":
		return from.UserName
	case from.FirstName != "":
		return strings.TrimSpace(from.FirstName + " " + from.LastName)
	}
	return defaultDisplayName
}
