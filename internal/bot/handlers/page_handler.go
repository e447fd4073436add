package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/beifenbot/internal/search"
)

// NewPageHandler returns a handler for page_<n> navigation callbacks.
// It re-runs the user's remembered query at the requested page and edits
// the result message in place.
func NewPageHandler(deps HandlerDeps) bot.HandlerFunc {
	return pageHandler{deps}.Handle
}

type pageHandler struct {
	deps HandlerDeps
}

func (h pageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "page")

	if update.CallbackQuery == nil {
		return
	}
	answerCallback(ctx, b, log, update, "")

	requested, ok := callbackID(update.CallbackQuery.Data, search.CallbackPagePrefix)
	if !ok {
		log.WarnContext(ctx, "Malformed page callback", "data", update.CallbackQuery.Data)
		return
	}

	msg := callbackMessage(update)
	if msg == nil {
		log.WarnContext(ctx, "Page callback on inaccessible message", "update_id", update.ID)
		return
	}

	userID := update.CallbackQuery.From.ID
	query := h.deps.Sessions.LastQuery(userID)

	page, err := h.deps.Search.Search(ctx, userID, query, int(requested))
	if err != nil {
		log.ErrorContext(ctx, "Search failed during page navigation",
			"error", err, "user_id", userID, "page", requested)
		reply(ctx, b, log, msg.Chat.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	if err := editResults(ctx, b, h.deps, msg, page); err != nil {
		log.ErrorContext(ctx, "Failed to edit results message",
			"error", err, "chat_id", msg.Chat.ID, "message_id", msg.ID)
	}
}

// editResults rewrites a rendered results message with a new page, or with
// the empty-result text when the page has no rows.
func editResults(ctx context.Context, b *bot.Bot, deps HandlerDeps, msg *models.Message, page *search.Page) error {
	if page.TotalCount == 0 {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      search.EmptyText(page.Query),
		})
		return err
	}

	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      deps.Search.RenderText(page),
		ParseMode: models.ParseModeHTML,
		ReplyMarkup: models.InlineKeyboardMarkup{
			InlineKeyboard: deps.Search.RenderKeyboard(page),
		},
	})
	return err
}
