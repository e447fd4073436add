package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/beifenbot/internal/database"
	"github.com/edgard/beifenbot/internal/search"
)

// NewViewHandler returns a handler for view_<id> callbacks. Viewing
// prefers redelivering the archived remote copy, which reproduces the
// original formatting and media exactly; on any remote failure it falls
// back to reconstructing the reply from the locally stored record. The
// fallback never fails the operation just because the remote copy is
// unavailable.
func NewViewHandler(deps HandlerDeps) bot.HandlerFunc {
	return viewHandler{deps}.Handle
}

type viewHandler struct {
	deps HandlerDeps
}

func (h viewHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "view")

	if update.CallbackQuery == nil {
		return
	}
	answerCallback(ctx, b, log, update, "")

	id, ok := callbackID(update.CallbackQuery.Data, search.CallbackViewPrefix)
	if !ok {
		log.WarnContext(ctx, "Malformed view callback", "data", update.CallbackQuery.Data)
		return
	}

	msg := callbackMessage(update)
	if msg == nil {
		log.WarnContext(ctx, "View callback on inaccessible message", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	record, err := h.deps.Store.GetMessageByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, database.ErrMessageNotFound) {
			reply(ctx, b, log, chatID, h.deps.Config.Messages.MessageNotFound)
			return
		}
		log.ErrorContext(ctx, "Failed to fetch message for viewing", "error", err, "id", id)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	if record.ForwardedMessageID.Valid {
		err := h.deps.Forwarder.Redeliver(ctx, b, chatID, record.ForwardedMessageID.Int64)
		if err == nil {
			return
		}
		log.WarnContext(ctx, "Failed to redeliver archived copy, falling back to local data",
			"error", err, "remote_message_id", record.ForwardedMessageID.Int64)
	}

	if err := h.sendLocalCopy(ctx, b, chatID, record); err != nil {
		log.ErrorContext(ctx, "Failed to send local copy", "error", err, "id", id)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.SendFailed)
	}
}

// sendLocalCopy reconstructs a reply from the stored kind, text, and media
// reference.
func (h viewHandler) sendLocalCopy(ctx context.Context, b *bot.Bot, chatID int64, record *database.Message) error {
	var err error
	switch record.MessageType {
	case database.MessageTypePhoto:
		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileString{Data: record.FileID},
			Caption: record.Text,
		})
	case database.MessageTypeVideo:
		_, err = b.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:  chatID,
			Video:   &models.InputFileString{Data: record.FileID},
			Caption: record.Text,
		})
	case database.MessageTypeDocument:
		_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:   chatID,
			Document: &models.InputFileString{Data: record.FileID},
			Caption:  record.Text,
		})
	case database.MessageTypeVoice:
		_, err = b.SendVoice(ctx, &bot.SendVoiceParams{
			ChatID:  chatID,
			Voice:   &models.InputFileString{Data: record.FileID},
			Caption: record.Text,
		})
	default:
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   record.Text,
		})
	}
	return err
}
