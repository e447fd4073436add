package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/edgard/beifenbot/internal/tokenizer"
)

func newTokenizer(t *testing.T) *tokenizer.Tokenizer {
	t.Helper()

	tok, err := tokenizer.New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return tok
}

func TestTokenizeEmpty(t *testing.T) {
	tok := newTokenizer(t)

	if got := tok.Tokenize(""); got != "" {
		t.Errorf("Tokenize(\"\") = %q, want empty", got)
	}
}

func TestTokenizeLatinText(t *testing.T) {
	tok := newTokenizer(t)

	got := tok.Tokenize("hello world")
	fields := strings.Fields(got)

	contains := func(want string) bool {
		for _, f := range fields {
			if f == want {
				return true
			}
		}
		return false
	}
	if !contains("hello") || !contains("world") {
		t.Errorf("Tokenize(%q) = %q, want tokens containing hello and world", "hello world", got)
	}
}

func TestTokenizeCJKText(t *testing.T) {
	tok := newTokenizer(t)

	got := tok.Tokenize("我喜欢北京烤鸭")
	if got == "" {
		t.Fatalf("Tokenize returned empty for CJK input")
	}
	// Segmentation splits the sentence into more than one token.
	if len(strings.Fields(got)) < 2 {
		t.Errorf("Tokenize(%q) = %q, want multiple tokens", "我喜欢北京烤鸭", got)
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	tok := newTokenizer(t)

	input := "the quick brown fox 跳过了 lazy dog"
	first := tok.Tokenize(input)
	second := tok.Tokenize(input)
	if first != second {
		t.Errorf("Tokenize not deterministic: %q vs %q", first, second)
	}
}
