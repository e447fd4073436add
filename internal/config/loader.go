package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel      = "info"
	DefaultDBPath        = "storage.db"
	DefaultPageSize      = 10
	DefaultPreviewLength = 100
	DefaultSessionTTL    = 24 * time.Hour
)

// DefaultMessages are the user-facing reply texts used when config.yaml
// does not override them.
var DefaultMessages = MessagesConfig{
	Help: `Welcome to the message backup bot!

Available commands:
/start      - Show this help
/register   - Register
/unregister - Unregister and delete all backups
/search     - Search backed-up messages
/me         - Show your backup statistics

Usage:
1. Forward any message to me to back it up
2. Use /search to find it later`,
	Registered:        "✅ Registration successful!",
	AlreadyRegistered: "✅ You are already registered!",
	AutoRegistered:    "✅ You have been registered automatically!",
	NotRegistered:     "❌ You are not registered yet! Use /register first.",
	BackedUp:          "✅ Message backed up!",
	ForwardFailed:     "❌ Failed to forward the message to the archive channel.",
	MessageNotFound:   "❌ Message not found!",
	MessageDeleted:    "✅ Message deleted!",
	DeleteFailed:      "❌ Failed to delete the message, please try again later.",
	SendFailed:        "❌ Failed to send the message, please try again later.",
	GeneralError:      "❌ An error occurred. Please try again later.",
}

// Load loads and validates configuration from:
// 1. Default values
// 2. The config file at configPath (missing file is not an error)
// 3. BOT_* environment variables
func Load(configPath string) (*Config, error) {
	setDefaults()

	if err := readConfig(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// readConfig initializes and loads the configuration using viper.
// A missing config file is fine, defaults and environment apply.
func readConfig(configPath string) error {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for optional configuration parameters.
func setDefaults() {
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.json", true)

	viper.SetDefault("database.path", DefaultDBPath)

	// Registering the key lets BOT_TELEGRAM_TOKEN bind without a config file.
	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.archive_chat_id", 0)

	viper.SetDefault("search.page_size", DefaultPageSize)
	viper.SetDefault("search.preview_length", DefaultPreviewLength)
	viper.SetDefault("search.session_ttl", DefaultSessionTTL)

	viper.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
	})

	viper.SetDefault("messages.help", DefaultMessages.Help)
	viper.SetDefault("messages.registered", DefaultMessages.Registered)
	viper.SetDefault("messages.already_registered", DefaultMessages.AlreadyRegistered)
	viper.SetDefault("messages.auto_registered", DefaultMessages.AutoRegistered)
	viper.SetDefault("messages.not_registered", DefaultMessages.NotRegistered)
	viper.SetDefault("messages.backed_up", DefaultMessages.BackedUp)
	viper.SetDefault("messages.forward_failed", DefaultMessages.ForwardFailed)
	viper.SetDefault("messages.message_not_found", DefaultMessages.MessageNotFound)
	viper.SetDefault("messages.message_deleted", DefaultMessages.MessageDeleted)
	viper.SetDefault("messages.delete_failed", DefaultMessages.DeleteFailed)
	viper.SetDefault("messages.send_failed", DefaultMessages.SendFailed)
	viper.SetDefault("messages.general_error", DefaultMessages.GeneralError)
}
