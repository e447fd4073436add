package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Sentinel errors returned by Store implementations. Handlers check these
// with errors.Is and translate them into short user-facing guard messages.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrDuplicateUser   = errors.New("user already registered")
)

// Store defines the interface for database operations.
// Methods should accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetUserByTelegramID retrieves a user by Telegram ID.
	// Returns ErrUserNotFound if no such user exists.
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*User, error)

	// CreateUser inserts a new user record.
	// Returns ErrDuplicateUser if the Telegram ID is already registered.
	CreateUser(ctx context.Context, user *User) error

	// DeleteUser deletes a user and all messages owned by it in one transaction.
	// Returns ErrUserNotFound if no such user exists.
	DeleteUser(ctx context.Context, telegramID int64) error

	// SaveMessage inserts a new message record and assigns its store-local ID.
	SaveMessage(ctx context.Context, message *Message) error

	// GetMessageByID retrieves a message by its store-local ID.
	// Returns ErrMessageNotFound if no such message exists.
	GetMessageByID(ctx context.Context, id uint) (*Message, error)

	// DeleteMessage deletes a message by its store-local ID.
	// Returns ErrMessageNotFound if no such message exists.
	DeleteMessage(ctx context.Context, id uint) error

	// GetMessagesByUser retrieves all messages owned by a user, oldest first.
	GetMessagesByUser(ctx context.Context, telegramID int64) ([]Message, error)

	// SearchMessages returns one page of a user's messages plus the total
	// filtered count. A non-empty token filter keeps a message when its
	// tokenized text contains any filter token as a substring.
	// Results are ordered by creation time, newest first.
	SearchMessages(ctx context.Context, telegramID int64, tokens []string, offset, limit int) ([]Message, int, error)

	// CountMessagesByType returns per-kind message counts for a user.
	// Every known kind is present in the result, zero when absent.
	CountMessagesByType(ctx context.Context, telegramID int64) (map[string]int, error)

	// GetMessageTimeRange returns the user's earliest and latest messages.
	// Both are nil when the user has no messages.
	GetMessageTimeRange(ctx context.Context, telegramID int64) (*Message, *Message, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUserByTelegramID retrieves a user by Telegram ID.
func (s *sqlxStore) GetUserByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram_id cannot be zero")
	}

	var user User
	query := `SELECT id, telegram_id, username, first_name, last_name, registered_at
	          FROM users WHERE telegram_id = ?`

	err := s.db.GetContext(ctx, &user, query, telegramID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrUserNotFound

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching user",
			"telegram_id", telegramID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user", "telegram_id", telegramID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", telegramID, err)
	}

	return &user, nil
}

// CreateUser inserts a new user record inside a transaction, checking for
// an existing registration first so the duplicate case maps to a stable
// sentinel instead of a driver-specific constraint error.
func (s *sqlxStore) CreateUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("cannot create nil user")
	}
	if user.TelegramID == 0 {
		return fmt.Errorf("user must have a non-zero telegram_id")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for creating user",
			"telegram_id", user.TelegramID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	var exists bool
	err = tx.GetContext(ctx, &exists, `SELECT 1 FROM users WHERE telegram_id = ? LIMIT 1`, user.TelegramID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking if user exists",
			"telegram_id", user.TelegramID, "error", err)
		return fmt.Errorf("failed to check if user %d exists: %w", user.TelegramID, err)
	}
	if exists {
		return ErrDuplicateUser
	}

	query := `
        INSERT INTO users (telegram_id, username, first_name, last_name, registered_at)
        VALUES (:telegram_id, :username, :first_name, :last_name, :registered_at);
    `
	result, err := tx.NamedExecContext(ctx, query, user)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateUser
		}
		s.logger.ErrorContext(ctx, "Error creating user", "telegram_id", user.TelegramID, "error", err)
		return fmt.Errorf("failed to create user %d: %w", user.TelegramID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		user.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after creating user",
			"telegram_id", user.TelegramID, "error", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"telegram_id", user.TelegramID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "User created successfully", "telegram_id", user.TelegramID, "user_id", user.ID)
	return nil
}

// DeleteUser deletes a user and all messages owned by it in one transaction.
func (s *sqlxStore) DeleteUser(ctx context.Context, telegramID int64) error {
	if telegramID == 0 {
		return fmt.Errorf("telegram_id cannot be zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for deleting user",
			"telegram_id", telegramID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	messagesResult, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE user_id = ?`, telegramID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting user messages", "telegram_id", telegramID, "error", err)
		return fmt.Errorf("failed to delete messages for user %d: %w", telegramID, err)
	}
	messagesCount, _ := messagesResult.RowsAffected()

	userResult, err := tx.ExecContext(ctx, `DELETE FROM users WHERE telegram_id = ?`, telegramID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting user", "telegram_id", telegramID, "error", err)
		return fmt.Errorf("failed to delete user %d: %w", telegramID, err)
	}
	affected, err := userResult.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count when deleting user",
			"telegram_id", telegramID, "error", err)
	} else if affected == 0 {
		return ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"telegram_id", telegramID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "User deleted successfully",
		"telegram_id", telegramID, "messages_deleted", messagesCount)
	return nil
}

// SaveMessage inserts a new message record and assigns its store-local ID.
func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.UserID == 0 {
		return fmt.Errorf("message must have a non-zero user_id")
	}
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.MessageType == "" {
		return fmt.Errorf("message must have a message_type")
	}
	if message.CreatedAt.IsZero() {
		return fmt.Errorf("message must have a non-zero creation time")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving message",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	query := `
        INSERT INTO messages (message_id, user_id, chat_id, message_type, text, tokens, file_id, forwarded_message_id, created_at)
        VALUES (:message_id, :user_id, :chat_id, :message_type, :text, :tokens, :file_id, :forwarded_message_id, :created_at);
    `
	result, err := tx.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to save message (chat %d, user %d): %w", message.ChatID, message.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		message.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Message saved successfully",
		"chat_id", message.ChatID, "user_id", message.UserID, "message_id", message.ID)
	return nil
}

// GetMessageByID retrieves a message by its store-local ID.
func (s *sqlxStore) GetMessageByID(ctx context.Context, id uint) (*Message, error) {
	var message Message
	query := `SELECT id, message_id, user_id, chat_id, message_type, text, tokens, file_id, forwarded_message_id, created_at
	          FROM messages WHERE id = ?`

	err := s.db.GetContext(ctx, &message, query, id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrMessageNotFound

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching message",
			"id", id, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting message", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get message %d: %w", id, err)
	}

	return &message, nil
}

// DeleteMessage deletes a message by its store-local ID. A concurrent
// double-delete degrades to ErrMessageNotFound for the second caller.
func (s *sqlxStore) DeleteMessage(ctx context.Context, id uint) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting message", "id", id, "error", err)
		return fmt.Errorf("failed to delete message %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count when deleting message",
			"id", id, "error", err)
		return nil
	}
	if affected == 0 {
		return ErrMessageNotFound
	}

	s.logger.DebugContext(ctx, "Message deleted successfully", "id", id)
	return nil
}

// GetMessagesByUser retrieves all messages owned by a user, oldest first.
func (s *sqlxStore) GetMessagesByUser(ctx context.Context, telegramID int64) ([]Message, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var messages []Message
	query := `SELECT id, message_id, user_id, chat_id, message_type, text, tokens, file_id, forwarded_message_id, created_at
	          FROM messages
	          WHERE user_id = ?
	          ORDER BY created_at ASC, id ASC`

	err := s.db.SelectContext(ctx, &messages, query, telegramID)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching user messages",
			"telegram_id", telegramID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user messages", "telegram_id", telegramID, "error", err)
		return nil, fmt.Errorf("failed to get messages for user %d: %w", telegramID, err)
	}

	return messages, nil
}

// SearchMessages returns one page of a user's messages plus the total
// filtered count. Token filtering is a substring LIKE over the whole
// tokenized text with OR semantics, so short tokens match inside longer
// ones ("he" matches "the"). That imprecision is part of the visible
// search behavior and is kept as is.
func (s *sqlxStore) SearchMessages(ctx context.Context, telegramID int64, tokens []string, offset, limit int) ([]Message, int, error) {
	if telegramID == 0 {
		return nil, 0, fmt.Errorf("telegram_id cannot be zero")
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 10
	}
	if ctx.Err() != nil {
		return nil, 0, ctx.Err()
	}

	where := `WHERE user_id = ?`
	args := []any{telegramID}
	if len(tokens) > 0 {
		likes := make([]string, len(tokens))
		for i, token := range tokens {
			likes[i] = "tokens LIKE ?"
			args = append(args, "%"+token+"%")
		}
		where += " AND (" + strings.Join(likes, " OR ") + ")"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM messages ` + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error counting search results",
			"telegram_id", telegramID, "tokens", len(tokens), "error", err)
		return nil, 0, fmt.Errorf("failed to count messages for user %d: %w", telegramID, err)
	}

	var messages []Message
	pageQuery := `SELECT id, message_id, user_id, chat_id, message_type, text, tokens, file_id, forwarded_message_id, created_at
	              FROM messages ` + where + `
	              ORDER BY created_at DESC, id DESC
	              LIMIT ? OFFSET ?`
	pageArgs := append(args, limit, offset)

	err := s.db.SelectContext(ctx, &messages, pageQuery, pageArgs...)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while searching messages",
			"telegram_id", telegramID, "error", err)
		return nil, 0, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error searching messages",
			"telegram_id", telegramID, "tokens", len(tokens), "offset", offset, "limit", limit, "error", err)
		return nil, 0, fmt.Errorf("failed to search messages for user %d: %w", telegramID, err)
	}

	s.logger.DebugContext(ctx, "Search completed",
		"telegram_id", telegramID, "tokens", len(tokens), "total", total, "page_rows", len(messages))
	return messages, total, nil
}

// CountMessagesByType returns per-kind message counts for a user.
func (s *sqlxStore) CountMessagesByType(ctx context.Context, telegramID int64) (map[string]int, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram_id cannot be zero")
	}

	rows := []struct {
		MessageType string `db:"message_type"`
		Count       int    `db:"count"`
	}{}
	query := `SELECT message_type, COUNT(*) AS count
	          FROM messages
	          WHERE user_id = ?
	          GROUP BY message_type`

	if err := s.db.SelectContext(ctx, &rows, query, telegramID); err != nil {
		s.logger.ErrorContext(ctx, "Error counting messages by type",
			"telegram_id", telegramID, "error", err)
		return nil, fmt.Errorf("failed to count messages by type for user %d: %w", telegramID, err)
	}

	counts := make(map[string]int, len(MessageTypes))
	for _, messageType := range MessageTypes {
		counts[messageType] = 0
	}
	for _, row := range rows {
		counts[row.MessageType] = row.Count
	}
	return counts, nil
}

// GetMessageTimeRange returns the user's earliest and latest messages.
func (s *sqlxStore) GetMessageTimeRange(ctx context.Context, telegramID int64) (*Message, *Message, error) {
	if telegramID == 0 {
		return nil, nil, fmt.Errorf("telegram_id cannot be zero")
	}

	const selectCols = `SELECT id, message_id, user_id, chat_id, message_type, text, tokens, file_id, forwarded_message_id, created_at
	                    FROM messages WHERE user_id = ?`

	var first Message
	err := s.db.GetContext(ctx, &first, selectCols+` ORDER BY created_at ASC, id ASC LIMIT 1`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting earliest message", "telegram_id", telegramID, "error", err)
		return nil, nil, fmt.Errorf("failed to get earliest message for user %d: %w", telegramID, err)
	}

	var last Message
	err = s.db.GetContext(ctx, &last, selectCols+` ORDER BY created_at DESC, id DESC LIMIT 1`, telegramID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting latest message", "telegram_id", telegramID, "error", err)
		return nil, nil, fmt.Errorf("failed to get latest message for user %d: %w", telegramID, err)
	}

	return &first, &last, nil
}

// RunMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
