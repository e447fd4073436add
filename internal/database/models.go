package database

import (
	"database/sql"
	"time"
)

// Message kinds stored in messages.message_type.
const (
	MessageTypeText     = "text"
	MessageTypePhoto    = "photo"
	MessageTypeVideo    = "video"
	MessageTypeDocument = "document"
	MessageTypeVoice    = "voice"
)

// MessageTypes lists all known message kinds in display order.
var MessageTypes = []string{
	MessageTypeText,
	MessageTypePhoto,
	MessageTypeVideo,
	MessageTypeDocument,
	MessageTypeVoice,
}

// User represents a registered bot user. TelegramID is the stable
// platform identifier and is unique across the table; messages reference
// it as their owner key.
type User struct {
	ID           uint      `db:"id"`
	TelegramID   int64     `db:"telegram_id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	RegisteredAt time.Time `db:"registered_at"`
}

// Message represents one backed-up message. MessageID is the originating
// Telegram message id, ID is the store-local identity used by inline
// view/delete callbacks. ForwardedMessageID holds the archive-channel copy
// id and is NULL when no archive channel is configured; it is written once
// at insert and never updated.
type Message struct {
	ID                 uint          `db:"id"`
	MessageID          int           `db:"message_id"`
	UserID             int64         `db:"user_id"`
	ChatID             int64         `db:"chat_id"`
	MessageType        string        `db:"message_type"`
	Text               string        `db:"text"`
	Tokens             string        `db:"tokens"`
	FileID             string        `db:"file_id"`
	ForwardedMessageID sql.NullInt64 `db:"forwarded_message_id"`
	CreatedAt          time.Time     `db:"created_at"`
}
