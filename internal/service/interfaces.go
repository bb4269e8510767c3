package service

import (
	"context"

	"advent-bot/internal/domain"
)

// Deliverer is the outbound transport for composed episodes and plain
// messages. The Telegram bot implements it; tests use a fake.
type Deliverer interface {
	// SendEpisode delivers one composed episode to a chat
	SendEpisode(ctx context.Context, chatID int64, episode domain.Episode) error

	// SendText delivers a plain text message to a chat
	SendText(ctx context.Context, chatID int64, text string) error
}
