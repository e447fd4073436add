package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/beifenbot/internal/search"
)

// NewSearchHandler returns a handler for the /search command.
//
// Usage: /search [query]. Without a query it lists the most recent
// backed-up messages. The query is remembered per user so page navigation
// and post-delete refreshes reuse it without resubmission.
func NewSearchHandler(deps HandlerDeps) bot.HandlerFunc {
	return searchHandler{deps}.Handle
}

type searchHandler struct {
	deps HandlerDeps
}

func (h searchHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "search")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Search handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	// Drop the command itself ("/search" or "/search@botname")
	query := ""
	if fields := strings.Fields(update.Message.Text); len(fields) > 1 {
		query = strings.Join(fields[1:], " ")
	}
	h.deps.Sessions.Remember(userID, query)

	page, err := h.deps.Search.Search(ctx, userID, query, 1)
	if err != nil {
		log.ErrorContext(ctx, "Search failed", "error", err, "user_id", userID, "query", query)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	if page.TotalCount == 0 {
		reply(ctx, b, log, chatID, search.EmptyText(query))
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      h.deps.Search.RenderText(page),
		ParseMode: models.ParseModeHTML,
		ReplyMarkup: models.InlineKeyboardMarkup{
			InlineKeyboard: h.deps.Search.RenderKeyboard(page),
		},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send search results", "error", err, "chat_id", chatID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
	}
}
