package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/beifenbot/internal/database"
	"github.com/edgard/beifenbot/internal/search"
)

// NewDeleteHandler returns a handler for delete_<id> callbacks. It removes
// the archived copy (best effort), deletes the local record, and refreshes
// the results message at the page it was showing. The current page is
// recovered from the rendered message text so a delete after navigation
// stays where the user was.
func NewDeleteHandler(deps HandlerDeps) bot.HandlerFunc {
	return deleteHandler{deps}.Handle
}

type deleteHandler struct {
	deps HandlerDeps
}

func (h deleteHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "delete")

	if update.CallbackQuery == nil {
		return
	}

	id, ok := callbackID(update.CallbackQuery.Data, search.CallbackDeletePrefix)
	if !ok {
		log.WarnContext(ctx, "Malformed delete callback", "data", update.CallbackQuery.Data)
		answerCallback(ctx, b, log, update, "")
		return
	}

	msg := callbackMessage(update)
	if msg == nil {
		log.WarnContext(ctx, "Delete callback on inaccessible message", "update_id", update.ID)
		answerCallback(ctx, b, log, update, "")
		return
	}
	chatID := msg.Chat.ID
	userID := update.CallbackQuery.From.ID

	record, err := h.deps.Store.GetMessageByID(ctx, uint(id))
	if err != nil {
		answerCallback(ctx, b, log, update, "")
		if errors.Is(err, database.ErrMessageNotFound) {
			reply(ctx, b, log, chatID, h.deps.Config.Messages.MessageNotFound)
			return
		}
		log.ErrorContext(ctx, "Failed to fetch message for deletion", "error", err, "id", id)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.DeleteFailed)
		return
	}

	// Removing the archived copy is best effort. A stale or already
	// removed remote message must not block deleting the local record.
	if record.ForwardedMessageID.Valid {
		if err := h.deps.Forwarder.DeleteRemote(ctx, b, record.ForwardedMessageID.Int64); err != nil {
			log.WarnContext(ctx, "Failed to delete archived copy",
				"error", err, "remote_message_id", record.ForwardedMessageID.Int64)
		}
	}

	if err := h.deps.Store.DeleteMessage(ctx, uint(id)); err != nil {
		answerCallback(ctx, b, log, update, "")
		if errors.Is(err, database.ErrMessageNotFound) {
			reply(ctx, b, log, chatID, h.deps.Config.Messages.MessageNotFound)
			return
		}
		log.ErrorContext(ctx, "Failed to delete message", "error", err, "id", id)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.DeleteFailed)
		return
	}

	answerCallback(ctx, b, log, update, h.deps.Config.Messages.MessageDeleted)
	log.InfoContext(ctx, "Message deleted", "id", id, "user_id", userID)

	query := h.deps.Sessions.LastQuery(userID)
	currentPage := search.PageFromText(msg.Text)

	page, err := h.deps.Search.Search(ctx, userID, query, currentPage)
	if err != nil {
		log.ErrorContext(ctx, "Search failed during post-delete refresh",
			"error", err, "user_id", userID, "page", currentPage)
		return
	}

	if err := editResults(ctx, b, h.deps, msg, page); err != nil {
		log.ErrorContext(ctx, "Failed to refresh results message",
			"error", err, "chat_id", chatID, "message_id", msg.ID)
	}
}
