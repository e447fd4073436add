package handlers

import (
	"log/slog"

	"github.com/edgard/beifenbot/internal/archive"
	"github.com/edgard/beifenbot/internal/config"
	"github.com/edgard/beifenbot/internal/database"
	"github.com/edgard/beifenbot/internal/search"
	"github.com/edgard/beifenbot/internal/tokenizer"
)

// HandlerDeps provides dependencies for Telegram command, message, and
// callback handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Tokenizer *tokenizer.Tokenizer
	Forwarder *archive.Forwarder
	Search    *search.Service
	Sessions  *search.Sessions
}
