// Package handlers contains Telegram bot command, message, and callback
// handlers, along with their registration logic.
package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// reply sends a plain text message and logs (but does not propagate) send
// failures, which are not actionable by the caller.
func reply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// answerCallback acknowledges a callback query so the client stops showing
// the loading state. text, when non-empty, is shown as a toast.
func answerCallback(ctx context.Context, b *bot.Bot, log *slog.Logger, update *models.Update, text string) {
	if update.CallbackQuery == nil {
		return
	}
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}
}

// callbackMessage extracts the accessible message a callback query is
// attached to. Returns nil for inaccessible messages (too old, or deleted).
func callbackMessage(update *models.Update) *models.Message {
	if update.CallbackQuery == nil {
		return nil
	}
	return update.CallbackQuery.Message.Message
}

// callbackID parses the numeric suffix of a callback data payload such as
// "view_42" or "page_3".
func callbackID(data, prefix string) (uint64, bool) {
	raw := strings.TrimPrefix(data, prefix)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
