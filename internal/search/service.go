// Package search builds filtered, paginated views over the message store
// and renders them as navigable Telegram result pages.
package search

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/edgard/beifenbot/internal/database"
	"github.com/edgard/beifenbot/internal/tokenizer"
)

// Page is one bounded view over a user's filtered messages.
type Page struct {
	Rows       []database.Message
	Query      string
	Page       int
	TotalPages int
	TotalCount int
}

// Service translates a raw query string and a requested page number into a
// bounded result set backed by the store.
type Service struct {
	store         database.Store
	tokenizer     *tokenizer.Tokenizer
	pageSize      int
	previewLength int
	logger        *slog.Logger
}

// NewService creates a search Service.
func NewService(store database.Store, tok *tokenizer.Tokenizer, pageSize, previewLength int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:         store,
		tokenizer:     tok,
		pageSize:      pageSize,
		previewLength: previewLength,
		logger:        logger.With("component", "search"),
	}
}

// Search tokenizes the query, fetches the requested page, and clamps the
// page number into [1, totalPages]. An empty query returns the unfiltered
// recent-first listing. When the requested page lies beyond the filtered
// set (for example after a deletion shrank it), the clamped page is
// refetched so the returned rows always match the returned page number.
func (s *Service) Search(ctx context.Context, userID int64, query string, page int) (*Page, error) {
	var tokens []string
	if query != "" {
		tokens = strings.Fields(s.tokenizer.Tokenize(query))
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize

	rows, total, err := s.store.SearchMessages(ctx, userID, tokens, offset, s.pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := (total + s.pageSize - 1) / s.pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
		offset = (page - 1) * s.pageSize
		rows, total, err = s.store.SearchMessages(ctx, userID, tokens, offset, s.pageSize)
		if err != nil {
			return nil, err
		}
	}

	s.logger.DebugContext(ctx, "Search page built",
		"user_id", userID, "query", query, "page", page, "total_pages", totalPages, "total", total)

	return &Page{
		Rows:       rows,
		Query:      query,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
	}, nil
}

// PageSize returns the configured page size.
func (s *Service) PageSize() int {
	return s.pageSize
}
