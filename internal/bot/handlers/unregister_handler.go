package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/beifenbot/internal/database"
)

// NewUnregisterHandler returns a handler for the /unregister command.
// Unregistration deletes every backed-up message of the user (attempting
// best-effort deletion of each archived copy) and then the user record,
// replying with a summary of what happened.
func NewUnregisterHandler(deps HandlerDeps) bot.HandlerFunc {
	return unregisterHandler{deps}.Handle
}

type unregisterHandler struct {
	deps HandlerDeps
}

func (h unregisterHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "unregister")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Unregister handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if _, err := h.deps.Store.GetUserByTelegramID(ctx, userID); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			reply(ctx, b, log, chatID, h.deps.Config.Messages.NotRegistered)
			return
		}
		log.ErrorContext(ctx, "Failed to look up user", "error", err, "user_id", userID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	messages, err := h.deps.Store.GetMessagesByUser(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list user messages", "error", err, "user_id", userID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	// Remote deletion is best-effort: one failed archive delete must not
	// block the rest of the sweep or the local cascade.
	remoteDeleted := 0
	remoteFailed := 0
	for _, msg := range messages {
		if !msg.ForwardedMessageID.Valid {
			continue
		}
		if err := h.deps.Forwarder.DeleteRemote(ctx, b, msg.ForwardedMessageID.Int64); err != nil {
			log.WarnContext(ctx, "Failed to delete archived copy",
				"error", err, "remote_message_id", msg.ForwardedMessageID.Int64)
			remoteFailed++
			continue
		}
		remoteDeleted++
	}

	if err := h.deps.Store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			reply(ctx, b, log, chatID, h.deps.Config.Messages.NotRegistered)
			return
		}
		log.ErrorContext(ctx, "Failed to delete user", "error", err, "user_id", userID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	var summary strings.Builder
	summary.WriteString("✅ Unregistration successful!\n\n")
	summary.WriteString("📊 Summary:\n")
	fmt.Fprintf(&summary, "- Backed-up messages deleted: %d\n", len(messages))
	if h.deps.Forwarder.Configured() {
		fmt.Fprintf(&summary, "- Archive channel copies: %d deleted, %d failed\n", remoteDeleted, remoteFailed)
	}

	log.InfoContext(ctx, "User unregistered",
		"user_id", userID, "messages_deleted", len(messages),
		"remote_deleted", remoteDeleted, "remote_failed", remoteFailed)
	reply(ctx, b, log, chatID, summary.String())
}
