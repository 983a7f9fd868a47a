package session

import "context"

// PendingActionStore remembers which menu action a chat picked last, so the
// next free-text message can be read as its input. Pop consumes the action
// and returns "" when nothing is pending.
type PendingActionStore interface {
	Set(ctx context.Context, chatID int64, action string) error
	Pop(ctx context.Context, chatID int64) (string, error)
}

// FlashStore keeps one-line notices between a redirect and the next page.
type FlashStore interface {
	Push(ctx context.Context, key, message string) error
	Pop(ctx context.Context, key string) ([]string, error)
}
