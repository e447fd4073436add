package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edgard/beifenbot/internal/database"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func testUser(telegramID int64) *database.User {
	return &database.User{
		TelegramID:   telegramID,
		Username:     "tester",
		FirstName:    "Test",
		LastName:     "User",
		RegisteredAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func testMessage(userID int64, n int) *database.Message {
	return &database.Message{
		MessageID:   n,
		UserID:      userID,
		ChatID:      userID,
		MessageType: database.MessageTypeText,
		Text:        fmt.Sprintf("note number %d", n),
		Tokens:      fmt.Sprintf("note number %d", n),
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
	}
}

func TestCreateAndGetUser(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	user := testUser(42)
	require.NoError(t, store.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	got, err := store.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, user.TelegramID, got.TelegramID)
	require.Equal(t, user.Username, got.Username)

	_, err = store.GetUserByTelegramID(ctx, 7)
	require.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestCreateUserDuplicate(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))
	require.ErrorIs(t, store.CreateUser(ctx, testUser(42)), database.ErrDuplicateUser)
}

func TestSaveAndGetMessage(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))

	msg := testMessage(42, 1)
	msg.MessageType = database.MessageTypePhoto
	msg.FileID = "file-abc"
	msg.ForwardedMessageID = sql.NullInt64{Int64: 9001, Valid: true}
	require.NoError(t, store.SaveMessage(ctx, msg))
	require.NotZero(t, msg.ID)

	got, err := store.GetMessageByID(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, database.MessageTypePhoto, got.MessageType)
	require.Equal(t, msg.Text, got.Text)
	require.Equal(t, msg.Tokens, got.Tokens)
	require.Equal(t, "file-abc", got.FileID)
	require.True(t, got.ForwardedMessageID.Valid)
	require.Equal(t, int64(9001), got.ForwardedMessageID.Int64)

	_, err = store.GetMessageByID(ctx, msg.ID+100)
	require.ErrorIs(t, err, database.ErrMessageNotFound)
}

func TestSaveMessageWithoutRemoteCopy(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))

	msg := testMessage(42, 1)
	require.NoError(t, store.SaveMessage(ctx, msg))

	got, err := store.GetMessageByID(ctx, msg.ID)
	require.NoError(t, err)
	require.False(t, got.ForwardedMessageID.Valid)
}

func TestSearchMessages(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))
	require.NoError(t, store.CreateUser(ctx, testUser(7)))

	for i := 1; i <= 15; i++ {
		require.NoError(t, store.SaveMessage(ctx, testMessage(42, i)))
	}
	other := testMessage(7, 99)
	other.Tokens = "note for someone else"
	require.NoError(t, store.SaveMessage(ctx, other))

	// Unfiltered: newest first, paged, correct total.
	rows, total, err := store.SearchMessages(ctx, 42, nil, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 15, total)
	require.Len(t, rows, 10)
	require.Equal(t, 15, rows[0].MessageID)

	rows, total, err = store.SearchMessages(ctx, 42, nil, 10, 10)
	require.NoError(t, err)
	require.Equal(t, 15, total)
	require.Len(t, rows, 5)
	require.Equal(t, 5, rows[0].MessageID)

	// Token filter matches as a substring of the tokenized text.
	rows, total, err = store.SearchMessages(ctx, 42, []string{"number 1"}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 7, total) // 1, 10..15
	require.Len(t, rows, 7)

	// OR semantics across tokens.
	rows, total, err = store.SearchMessages(ctx, 42, []string{"number 2", "number 3"}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, rows, 2)

	// No match.
	_, total, err = store.SearchMessages(ctx, 42, []string{"nothing here"}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 0, total)

	// Other user's messages are invisible.
	_, total, err = store.SearchMessages(ctx, 7, nil, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestDeleteMessage(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))
	msg := testMessage(42, 1)
	require.NoError(t, store.SaveMessage(ctx, msg))

	require.NoError(t, store.DeleteMessage(ctx, msg.ID))
	require.ErrorIs(t, store.DeleteMessage(ctx, msg.ID), database.ErrMessageNotFound)

	_, err := store.GetMessageByID(ctx, msg.ID)
	require.ErrorIs(t, err, database.ErrMessageNotFound)
}

func TestDeleteUserRemovesMessages(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))
	for i := 1; i <= 3; i++ {
		require.NoError(t, store.SaveMessage(ctx, testMessage(42, i)))
	}

	require.NoError(t, store.DeleteUser(ctx, 42))

	_, err := store.GetUserByTelegramID(ctx, 42)
	require.ErrorIs(t, err, database.ErrUserNotFound)

	_, total, err := store.SearchMessages(ctx, 42, nil, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 0, total)

	require.ErrorIs(t, store.DeleteUser(ctx, 42), database.ErrUserNotFound)
}

func TestGetMessagesByUser(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))
	for i := 1; i <= 3; i++ {
		require.NoError(t, store.SaveMessage(ctx, testMessage(42, i)))
	}

	messages, err := store.GetMessagesByUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	// Oldest first
	require.Equal(t, 1, messages[0].MessageID)
	require.Equal(t, 3, messages[2].MessageID)
}

func TestCountMessagesByType(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))

	photo := testMessage(42, 1)
	photo.MessageType = database.MessageTypePhoto
	photo.FileID = "file-abc"
	require.NoError(t, store.SaveMessage(ctx, photo))
	require.NoError(t, store.SaveMessage(ctx, testMessage(42, 2)))
	require.NoError(t, store.SaveMessage(ctx, testMessage(42, 3)))

	counts, err := store.CountMessagesByType(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, 2, counts[database.MessageTypeText])
	require.Equal(t, 1, counts[database.MessageTypePhoto])

	// Every known kind is present even when zero.
	for _, messageType := range database.MessageTypes {
		_, ok := counts[messageType]
		require.True(t, ok, "missing kind %s", messageType)
	}
}

func TestGetMessageTimeRange(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(42)))

	first, last, err := store.GetMessageTimeRange(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, first)
	require.Nil(t, last)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.SaveMessage(ctx, testMessage(42, i)))
	}

	first, last, err = store.GetMessageTimeRange(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, last)
	require.Equal(t, 1, first.MessageID)
	require.Equal(t, 3, last.MessageID)
	require.True(t, first.CreatedAt.Before(last.CreatedAt))
}
