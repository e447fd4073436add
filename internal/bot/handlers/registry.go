package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/beifenbot/internal/search"
)

// RegisteredHandler represents a handler with its registration parameters.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all bot command and
// callback handlers. The message ingestion handler is not listed here; it
// is installed as the bot's default handler so it catches every non-command
// message.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/register"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "register",
		Handler:     NewRegisterHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/unregister"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "unregister",
		Handler:     NewUnregisterHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/search"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "search",
		Handler:     NewSearchHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/me"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "me",
		Handler:     NewMeHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	handlers["view"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     search.CallbackViewPrefix,
		Handler:     NewViewHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["delete"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     search.CallbackDeletePrefix,
		Handler:     NewDeleteHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["page"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     search.CallbackPagePrefix,
		Handler:     NewPageHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
