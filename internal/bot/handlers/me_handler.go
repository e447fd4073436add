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

var typeLabels = map[string]struct {
	name string
	icon string
}{
	database.MessageTypeText:     {"Text messages", "📝"},
	database.MessageTypePhoto:    {"Photo messages", "🖼"},
	database.MessageTypeVideo:    {"Video messages", "🎥"},
	database.MessageTypeDocument: {"Document messages", "📄"},
	database.MessageTypeVoice:    {"Voice messages", "🎤"},
}

// NewMeHandler returns a handler for the /me command, which shows the
// user's registration info and backup statistics.
func NewMeHandler(deps HandlerDeps) bot.HandlerFunc {
	return meHandler{deps}.Handle
}

type meHandler struct {
	deps HandlerDeps
}

func (h meHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "me")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Me handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	user, err := h.deps.Store.GetUserByTelegramID(ctx, from.ID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			reply(ctx, b, log, chatID, h.deps.Config.Messages.NotRegistered)
			return
		}
		log.ErrorContext(ctx, "Failed to look up user", "error", err, "user_id", from.ID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	counts, err := h.deps.Store.CountMessagesByType(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count messages by type", "error", err, "user_id", from.ID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	first, last, err := h.deps.Store.GetMessageTimeRange(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get message time range", "error", err, "user_id", from.ID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	var report strings.Builder

	report.WriteString("👤 <b>User info</b>\n")
	fmt.Fprintf(&report, "├ ID: <code>%d</code>\n", user.TelegramID)
	username := "not set"
	if user.Username != "" {
		username = "@" + user.Username
	}
	fmt.Fprintf(&report, "├ Username: %s\n", username)
	fmt.Fprintf(&report, "└ Registered: <code>%s</code>\n\n", user.RegisteredAt.Format("2006-01-02 15:04:05"))

	report.WriteString("📊 <b>Message statistics</b>\n")
	total := 0
	for i, messageType := range database.MessageTypes {
		label := typeLabels[messageType]
		prefix := "├"
		if i == len(database.MessageTypes)-1 {
			prefix = "└"
		}
		fmt.Fprintf(&report, "%s %s %s: <code>%d</code>\n", prefix, label.icon, label.name, counts[messageType])
		total += counts[messageType]
	}
	fmt.Fprintf(&report, "\n<b>Total messages</b>: <code>%d</code>\n\n", total)

	report.WriteString("⏰ <b>Time range</b>\n")
	if first != nil && last != nil {
		fmt.Fprintf(&report, "├ Earliest: <code>%s</code>\n", first.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&report, "└ Latest: <code>%s</code>", last.CreatedAt.Format("2006-01-02 15:04:05"))
	} else {
		report.WriteString("└ No messages yet")
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      report.String(),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send stats message", "error", err, "chat_id", chatID)
	}
}
