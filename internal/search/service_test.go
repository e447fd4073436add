package search_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edgard/beifenbot/internal/database"
	"github.com/edgard/beifenbot/internal/search"
	"github.com/edgard/beifenbot/internal/tokenizer"
)

// stubStore implements database.Store over an in-memory slice, reproducing
// the store's filter and ordering semantics for search.
type stubStore struct {
	database.Store

	messages []database.Message
}

func (s *stubStore) SearchMessages(_ context.Context, telegramID int64, tokens []string, offset, limit int) ([]database.Message, int, error) {
	var filtered []database.Message
	for _, msg := range s.messages {
		if msg.UserID != telegramID {
			continue
		}
		if len(tokens) > 0 && !matchesAny(msg.Tokens, tokens) {
			continue
		}
		filtered = append(filtered, msg)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})

	total := len(filtered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

func matchesAny(tokens string, filter []string) bool {
	for _, token := range filter {
		if strings.Contains(tokens, token) {
			return true
		}
	}
	return false
}

func newTestService(t *testing.T, store database.Store, pageSize int) *search.Service {
	t.Helper()

	tok, err := tokenizer.New()
	require.NoError(t, err)

	return search.NewService(store, tok, pageSize, 100, nil)
}

func fixtureMessages(userID int64, n int) []database.Message {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	messages := make([]database.Message, 0, n)
	for i := 1; i <= n; i++ {
		messages = append(messages, database.Message{
			ID:          uint(i),
			MessageID:   i,
			UserID:      userID,
			ChatID:      userID,
			MessageType: database.MessageTypeText,
			Text:        fmt.Sprintf("note number %d", i),
			Tokens:      fmt.Sprintf("note number %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	return messages
}

func TestSearchPagination(t *testing.T) {
	t.Parallel()

	store := &stubStore{messages: fixtureMessages(42, 15)}
	svc := newTestService(t, store, 10)

	page, err := svc.Search(context.Background(), 42, "", 1)
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 2, page.TotalPages)
	require.Equal(t, 15, page.TotalCount)
	require.Len(t, page.Rows, 10)
	// Newest first
	require.Equal(t, uint(15), page.Rows[0].ID)

	page, err = svc.Search(context.Background(), 42, "", 2)
	require.NoError(t, err)
	require.Equal(t, 2, page.Page)
	require.Len(t, page.Rows, 5)
	require.Equal(t, uint(5), page.Rows[0].ID)
}

func TestSearchClampsPage(t *testing.T) {
	t.Parallel()

	store := &stubStore{messages: fixtureMessages(42, 15)}
	svc := newTestService(t, store, 10)

	// Past the end: clamp to the last page and return its rows.
	page, err := svc.Search(context.Background(), 42, "", 99)
	require.NoError(t, err)
	require.Equal(t, 2, page.Page)
	require.Len(t, page.Rows, 5)

	// Below the start: clamp to the first page.
	page, err = svc.Search(context.Background(), 42, "", 0)
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.Len(t, page.Rows, 10)
}

func TestSearchEmptyResult(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	svc := newTestService(t, store, 10)

	page, err := svc.Search(context.Background(), 42, "anything", 1)
	require.NoError(t, err)
	require.Equal(t, 0, page.TotalCount)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 1, page.TotalPages)
	require.Empty(t, page.Rows)
}

func TestSearchSubstringSemantics(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubStore{messages: []database.Message{
		{ID: 1, UserID: 42, ChatID: 42, MessageType: database.MessageTypeText,
			Text: "hello there", Tokens: "hello there", CreatedAt: base},
		{ID: 2, UserID: 42, ChatID: 42, MessageType: database.MessageTypeText,
			Text: "something else", Tokens: "something else", CreatedAt: base.Add(time.Minute)},
	}}
	svc := newTestService(t, store, 10)

	// A query token matches as a substring of the stored token text.
	page, err := svc.Search(context.Background(), 42, "hell", 1)
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, uint(1), page.Rows[0].ID)

	// The filter only sees the other user's messages.
	page, err = svc.Search(context.Background(), 7, "hello", 1)
	require.NoError(t, err)
	require.Equal(t, 0, page.TotalCount)
}

func TestRenderTextAndKeyboard(t *testing.T) {
	t.Parallel()

	store := &stubStore{messages: fixtureMessages(42, 15)}
	svc := newTestService(t, store, 10)

	page, err := svc.Search(context.Background(), 42, "", 1)
	require.NoError(t, err)

	text := svc.RenderText(page)
	require.Contains(t, text, "(page 1/2)")
	require.Contains(t, text, "note number 15")
	require.Equal(t, 1, search.PageFromText(text))

	keyboard := svc.RenderKeyboard(page)
	// One row per message plus the navigation row.
	require.Len(t, keyboard, 11)
	require.Equal(t, "view_15", keyboard[0][0].CallbackData)
	require.Equal(t, "delete_15", keyboard[0][1].CallbackData)

	nav := keyboard[len(keyboard)-1]
	require.Len(t, nav, 1)
	require.Equal(t, "page_2", nav[0].CallbackData)

	// Page two navigates backwards only.
	page, err = svc.Search(context.Background(), 42, "", 2)
	require.NoError(t, err)
	keyboard = svc.RenderKeyboard(page)
	nav = keyboard[len(keyboard)-1]
	require.Len(t, nav, 1)
	require.Equal(t, "page_1", nav[0].CallbackData)
}
