package search_test

import (
	"testing"

	"github.com/edgard/beifenbot/internal/search"
)

func TestPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "Empty text",
			input:    "",
			maxLen:   100,
			expected: "no text content",
		},
		{
			name:     "Whitespace only",
			input:    "  \n\t  ",
			maxLen:   100,
			expected: "no text content",
		},
		{
			name:     "Short text unchanged",
			input:    "hello world",
			maxLen:   100,
			expected: "hello world",
		},
		{
			name:     "Newlines collapse to spaces",
			input:    "line one\nline two\r\nline three",
			maxLen:   100,
			expected: "line one line two line three",
		},
		{
			name:     "Whitespace runs collapse",
			input:    "too   many    spaces",
			maxLen:   100,
			expected: "too many spaces",
		},
		{
			name:     "Break at trailing space inside window",
			input:    "aaaaaaaaaaaaaaaaaa bbbbbb",
			maxLen:   20,
			expected: "aaaaaaaaaaaaaaaaaa...",
		},
		{
			name:     "Hard cut when last space is early",
			input:    "ab cdefghijklmnopqrstuvwxyz",
			maxLen:   20,
			expected: "ab cdefghijklmnopqrs...",
		},
		{
			name:     "Hard cut without any space",
			input:    "abcdefghijklmnopqrstuvwxyz",
			maxLen:   20,
			expected: "abcdefghijklmnopqrst...",
		},
		{
			name:     "Truncation counts runes not bytes",
			input:    "你好世界再见",
			maxLen:   4,
			expected: "你好世界...",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := search.Preview(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestPageFromText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "Marker present",
			input:    "<b>Search \"foo\"</b> (page 3/7)\n\n1. ...",
			expected: 3,
		},
		{
			name:     "First page",
			input:    "<b>Recent messages</b> (page 1/1)",
			expected: 1,
		},
		{
			name:     "No marker",
			input:    "No messages found!",
			expected: 1,
		},
		{
			name:     "Empty text",
			input:    "",
			expected: 1,
		},
		{
			name:     "Zero page falls back to one",
			input:    "(page 0/5)",
			expected: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := search.PageFromText(tt.input)
			if result != tt.expected {
				t.Errorf("PageFromText(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestEmptyText(t *testing.T) {
	t.Parallel()

	if got := search.EmptyText(""); got != "No messages found!" {
		t.Errorf("EmptyText(\"\") = %q", got)
	}
	if got := search.EmptyText("foo"); got != "No messages found for \"foo\"!" {
		t.Errorf("EmptyText(\"foo\") = %q", got)
	}
}
