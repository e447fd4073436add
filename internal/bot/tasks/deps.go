// Package tasks implements scheduled background tasks for the bot,
// along with their dependencies and registration mechanism.
package tasks

import (
	"log/slog"

	"github.com/edgard/beifenbot/internal/config"
	"github.com/edgard/beifenbot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
