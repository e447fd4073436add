// Package archive mirrors backed-up messages to an optional archive channel
// and manages the remote copies (redelivery for viewing, best-effort
// deletion). When no archive channel is configured every operation is a
// no-op so the rest of the system works on local data alone.
package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-telegram/bot"
)

// Forwarder mirrors messages to the configured archive chat. The bot
// instance is passed per call, matching the go-telegram/bot handler shape.
type Forwarder struct {
	archiveChatID int64
	logger        *slog.Logger
}

// NewForwarder creates a Forwarder. archiveChatID zero means no archive
// channel is configured.
func NewForwarder(archiveChatID int64, logger *slog.Logger) *Forwarder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Forwarder{
		archiveChatID: archiveChatID,
		logger:        logger.With("component", "forwarder"),
	}
}

// Configured reports whether an archive channel is set.
func (f *Forwarder) Configured() bool {
	return f.archiveChatID != 0
}

// Forward mirrors a message to the archive chat and returns the remote
// message id. Returns 0 with no error when no archive channel is
// configured. A transport failure is returned to the caller, which decides
// whether ingestion aborts.
func (f *Forwarder) Forward(ctx context.Context, b *bot.Bot, fromChatID int64, messageID int) (int64, error) {
	if !f.Configured() {
		return 0, nil
	}

	forwarded, err := b.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     f.archiveChatID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to forward message %d to archive chat: %w", messageID, err)
	}

	f.logger.DebugContext(ctx, "Message mirrored to archive chat",
		"message_id", messageID, "remote_message_id", forwarded.ID)
	return int64(forwarded.ID), nil
}

// DeleteRemote deletes the archived copy of a message. Callers treat
// failures as best-effort: log and continue, never abort the surrounding
// local operation.
func (f *Forwarder) DeleteRemote(ctx context.Context, b *bot.Bot, remoteMessageID int64) error {
	if !f.Configured() || remoteMessageID == 0 {
		return nil
	}

	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    f.archiveChatID,
		MessageID: int(remoteMessageID),
	}); err != nil {
		return fmt.Errorf("failed to delete remote message %d: %w", remoteMessageID, err)
	}

	f.logger.DebugContext(ctx, "Remote archive copy deleted", "remote_message_id", remoteMessageID)
	return nil
}

// Redeliver forwards the archived copy of a message back to a chat. Used by
// the view action because the remote copy reproduces the original
// formatting and media exactly. Callers fall back to locally stored data on
// failure.
func (f *Forwarder) Redeliver(ctx context.Context, b *bot.Bot, toChatID, remoteMessageID int64) error {
	if !f.Configured() || remoteMessageID == 0 {
		return fmt.Errorf("no remote archive copy available")
	}

	if _, err := b.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     toChatID,
		FromChatID: f.archiveChatID,
		MessageID:  int(remoteMessageID),
	}); err != nil {
		return fmt.Errorf("failed to redeliver remote message %d: %w", remoteMessageID, err)
	}

	return nil
}
