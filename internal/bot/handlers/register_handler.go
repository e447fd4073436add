package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/beifenbot/internal/database"
)

// NewRegisterHandler returns a handler for the /register command.
func NewRegisterHandler(deps HandlerDeps) bot.HandlerFunc {
	return registerHandler{deps}.Handle
}

type registerHandler struct {
	deps HandlerDeps
}

func (h registerHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "register")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Register handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	user := &database.User{
		TelegramID:   from.ID,
		Username:     from.Username,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		RegisteredAt: time.Now().UTC(),
	}

	err := h.deps.Store.CreateUser(ctx, user)
	switch {
	case errors.Is(err, database.ErrDuplicateUser):
		// Already registered is informational, not an error state
		reply(ctx, b, log, chatID, h.deps.Config.Messages.AlreadyRegistered)
		return

	case err != nil:
		log.ErrorContext(ctx, "Failed to register user", "error", err, "user_id", from.ID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "User registered", "user_id", from.ID)
	reply(ctx, b, log, chatID, h.deps.Config.Messages.Registered)
}
