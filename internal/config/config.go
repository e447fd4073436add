// Package config manages application configuration from config.yaml,
// BOT_* environment variables, and default values.
package config

import (
	"time"
)

// Config defines the application configuration for all components of the
// backup bot: logging, database, Telegram transport, search behavior,
// scheduled maintenance, and user-facing reply texts.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Search    SearchConfig    `mapstructure:"search"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls log level and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TelegramConfig holds transport settings. ArchiveChatID is the optional
// archive channel every backed-up message is mirrored to; zero means no
// archive channel is configured and forwarding/remote deletion are no-ops.
type TelegramConfig struct {
	Token         string `mapstructure:"token" validate:"required"`
	ArchiveChatID int64  `mapstructure:"archive_chat_id"`
}

// SearchConfig controls result pagination and preview rendering.
type SearchConfig struct {
	PageSize      int           `mapstructure:"page_size"      validate:"required,min=1,max=50"`
	PreviewLength int           `mapstructure:"preview_length" validate:"required,min=10"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"    validate:"required,min=1m"`
}

// TaskConfig enables a named scheduled task with a cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds the user-facing reply texts. Internal error detail
// never reaches users; these short texts do.
type MessagesConfig struct {
	Help              string `mapstructure:"help"               validate:"required"`
	Registered        string `mapstructure:"registered"         validate:"required"`
	AlreadyRegistered string `mapstructure:"already_registered" validate:"required"`
	AutoRegistered    string `mapstructure:"auto_registered"    validate:"required"`
	NotRegistered     string `mapstructure:"not_registered"     validate:"required"`
	BackedUp          string `mapstructure:"backed_up"          validate:"required"`
	ForwardFailed     string `mapstructure:"forward_failed"     validate:"required"`
	MessageNotFound   string `mapstructure:"message_not_found"  validate:"required"`
	MessageDeleted    string `mapstructure:"message_deleted"    validate:"required"`
	DeleteFailed      string `mapstructure:"delete_failed"      validate:"required"`
	SendFailed        string `mapstructure:"send_failed"        validate:"required"`
	GeneralError      string `mapstructure:"general_error"      validate:"required"`
}
