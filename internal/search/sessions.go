package search

import (
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Sessions remembers each user's last-submitted search query so page
// navigation and post-delete refreshes work without resubmitting the
// query. Entries expire after the configured TTL of inactivity and are
// never persisted across restarts; an expired entry degrades to the
// unfiltered listing.
type Sessions struct {
	queries *cache.Cache
}

// NewSessions creates a session store whose entries expire after ttl.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		queries: cache.New(ttl, 2*ttl),
	}
}

// Remember stores the user's last query, resetting its expiration.
func (s *Sessions) Remember(userID int64, query string) {
	s.queries.Set(strconv.FormatInt(userID, 10), query, cache.DefaultExpiration)
}

// LastQuery returns the user's last query, or "" when none is remembered.
func (s *Sessions) LastQuery(userID int64) string {
	value, ok := s.queries.Get(strconv.FormatInt(userID, 10))
	if !ok {
		return ""
	}
	query, ok := value.(string)
	if !ok {
		return ""
	}
	return query
}
