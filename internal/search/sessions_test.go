package search_test

import (
	"testing"
	"time"

	"github.com/edgard/beifenbot/internal/search"
)

func TestSessionsRememberAndOverwrite(t *testing.T) {
	t.Parallel()

	sessions := search.NewSessions(time.Minute)

	if got := sessions.LastQuery(42); got != "" {
		t.Errorf("LastQuery before Remember = %q, want empty", got)
	}

	sessions.Remember(42, "first")
	if got := sessions.LastQuery(42); got != "first" {
		t.Errorf("LastQuery = %q, want %q", got, "first")
	}

	sessions.Remember(42, "second")
	if got := sessions.LastQuery(42); got != "second" {
		t.Errorf("LastQuery after overwrite = %q, want %q", got, "second")
	}

	// Other users are unaffected.
	if got := sessions.LastQuery(7); got != "" {
		t.Errorf("LastQuery for other user = %q, want empty", got)
	}
}

func TestSessionsExpire(t *testing.T) {
	t.Parallel()

	sessions := search.NewSessions(20 * time.Millisecond)
	sessions.Remember(42, "fleeting")

	time.Sleep(50 * time.Millisecond)

	if got := sessions.LastQuery(42); got != "" {
		t.Errorf("LastQuery after TTL = %q, want empty", got)
	}
}
