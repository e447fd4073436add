package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/beifenbot/internal/database"
)

// NewMessageHandler returns the ingestion handler for incoming (typically
// forwarded) messages. It is installed as the bot's default handler. The
// flow is: ensure the user exists (auto-register), classify the message
// kind, tokenize the text, mirror to the archive channel, and persist.
// A forward failure aborts ingestion so no partial record is left behind.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	from := msg.From
	chatID := msg.Chat.ID

	messageType, text, fileID := classifyMessage(msg)
	if messageType == database.MessageTypeText && text == "" {
		// Stickers, contacts, and other unsupported payloads
		log.DebugContext(ctx, "Ignoring message without text or supported media",
			"chat_id", chatID, "user_id", from.ID)
		return
	}

	if err := h.ensureUser(ctx, b, log, from, chatID); err != nil {
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	tokens := h.deps.Tokenizer.Tokenize(text)

	remoteID, err := h.deps.Forwarder.Forward(ctx, b, chatID, msg.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to mirror message to archive channel",
			"error", err, "chat_id", chatID, "message_id", msg.ID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.ForwardFailed)
		return
	}

	record := &database.Message{
		MessageID:   msg.ID,
		UserID:      from.ID,
		ChatID:      chatID,
		MessageType: messageType,
		Text:        text,
		Tokens:      tokens,
		FileID:      fileID,
		CreatedAt:   time.Unix(int64(msg.Date), 0).UTC(),
	}
	if remoteID != 0 {
		record.ForwardedMessageID = sql.NullInt64{Int64: remoteID, Valid: true}
	}

	if err := h.deps.Store.SaveMessage(ctx, record); err != nil {
		log.ErrorContext(ctx, "Failed to save message",
			"error", err, "chat_id", chatID, "user_id", from.ID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Message backed up",
		"user_id", from.ID, "message_id", record.ID, "type", messageType,
		"archived_remotely", record.ForwardedMessageID.Valid)
	reply(ctx, b, log, chatID, h.deps.Config.Messages.BackedUp)
}

// ensureUser auto-registers the sender on first contact, with a notice.
func (h messageHandler) ensureUser(ctx context.Context, b *bot.Bot, log *slog.Logger, from *models.User, chatID int64) error {
	_, err := h.deps.Store.GetUserByTelegramID(ctx, from.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrUserNotFound) {
		log.ErrorContext(ctx, "Failed to look up user", "error", err, "user_id", from.ID)
		return err
	}

	user := &database.User{
		TelegramID:   from.ID,
		Username:     from.Username,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		RegisteredAt: time.Now().UTC(),
	}
	if err := h.deps.Store.CreateUser(ctx, user); err != nil && !errors.Is(err, database.ErrDuplicateUser) {
		log.ErrorContext(ctx, "Failed to auto-register user", "error", err, "user_id", from.ID)
		return err
	}

	log.InfoContext(ctx, "User auto-registered", "user_id", from.ID)
	reply(ctx, b, log, chatID, h.deps.Config.Messages.AutoRegistered)
	return nil
}

// classifyMessage maps an incoming Telegram message to a message kind, its
// indexable text (caption for media), and a media file handle when present.
// Photos use the largest available size.
func classifyMessage(msg *models.Message) (messageType, text, fileID string) {
	switch {
	case len(msg.Photo) > 0:
		return database.MessageTypePhoto, msg.Caption, msg.Photo[len(msg.Photo)-1].FileID
	case msg.Video != nil:
		return database.MessageTypeVideo, msg.Caption, msg.Video.FileID
	case msg.Document != nil:
		return database.MessageTypeDocument, msg.Caption, msg.Document.FileID
	case msg.Voice != nil:
		return database.MessageTypeVoice, msg.Caption, msg.Voice.FileID
	default:
		return database.MessageTypeText, msg.Text, ""
	}
}
