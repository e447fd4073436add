package search

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/beifenbot/internal/database"
)

// Callback data prefixes for the inline result controls.
const (
	CallbackViewPrefix   = "view_"
	CallbackDeletePrefix = "delete_"
	CallbackPagePrefix   = "page_"
)

const noTextPlaceholder = "no text content"

var typeIcons = map[string]string{
	database.MessageTypeText:     "📝",
	database.MessageTypePhoto:    "🖼",
	database.MessageTypeVideo:    "🎥",
	database.MessageTypeDocument: "📄",
	database.MessageTypeVoice:    "🎤",
}

var pagePattern = regexp.MustCompile(`page (\d+)/`)

// RenderText builds the HTML body for a result page: a title with the page
// position, then one numbered entry per row with type icon, timestamp, and
// a normalized text preview.
func (s *Service) RenderText(page *Page) string {
	title := "Recent messages"
	if page.Query != "" {
		title = fmt.Sprintf("Search %q", html.EscapeString(page.Query))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> (page %d/%d)\n\n", title, page.Page, page.TotalPages)

	for i, msg := range page.Rows {
		icon, ok := typeIcons[msg.MessageType]
		if !ok {
			icon = "📄"
		}

		fmt.Fprintf(&b, "%d. %s <code>%s</code>\n", i+1, icon, msg.CreatedAt.Format("2006-01-02 15:04"))
		if msg.MessageType != database.MessageTypeText {
			fmt.Fprintf(&b, "   └ type: %s\n", msg.MessageType)
		}
		fmt.Fprintf(&b, "   └ %s\n\n", html.EscapeString(Preview(msg.Text, s.previewLength)))
	}

	return b.String()
}

// RenderKeyboard builds the inline keyboard for a result page: a view and a
// delete button per row keyed by the store-local message id, plus a
// navigation row with previous/next controls where applicable.
func (s *Service) RenderKeyboard(page *Page) [][]models.InlineKeyboardButton {
	keyboard := make([][]models.InlineKeyboardButton, 0, len(page.Rows)+1)

	for i, msg := range page.Rows {
		keyboard = append(keyboard, []models.InlineKeyboardButton{
			{Text: fmt.Sprintf("View %d", i+1), CallbackData: CallbackViewPrefix + strconv.FormatUint(uint64(msg.ID), 10)},
			{Text: fmt.Sprintf("Delete %d", i+1), CallbackData: CallbackDeletePrefix + strconv.FormatUint(uint64(msg.ID), 10)},
		})
	}

	var nav []models.InlineKeyboardButton
	if page.Page > 1 {
		nav = append(nav, models.InlineKeyboardButton{Text: "⬅️", CallbackData: CallbackPagePrefix + strconv.Itoa(page.Page-1)})
	}
	if page.Page < page.TotalPages {
		nav = append(nav, models.InlineKeyboardButton{Text: "➡️", CallbackData: CallbackPagePrefix + strconv.Itoa(page.Page+1)})
	}
	if len(nav) > 0 {
		keyboard = append(keyboard, nav)
	}

	return keyboard
}

// EmptyText returns the reply for a page with no results.
func EmptyText(query string) string {
	if query == "" {
		return "No messages found!"
	}
	return fmt.Sprintf("No messages found for %q!", query)
}

// Preview normalizes and bounds a message text for list display: carriage
// returns are dropped, newlines become spaces, whitespace runs collapse to
// one space, and text longer than maxLen runes is truncated with an
// ellipsis marker. Truncation prefers the last space inside the window
// when that space falls within the final 20% of it, otherwise it hard-cuts.
func Preview(text string, maxLen int) string {
	if text == "" {
		return noTextPlaceholder
	}

	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return noTextPlaceholder
	}

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	window := runes[:maxLen]
	lastSpace := -1
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == ' ' {
			lastSpace = i
			break
		}
	}
	if float64(lastSpace) > float64(maxLen)*0.8 {
		window = window[:lastSpace]
	}
	return string(window) + "..."
}

// PageFromText recovers the page number a rendered result message is
// showing. The delete action uses it to refresh the page the user was
// viewing. Returns 1 when the marker is absent.
func PageFromText(text string) int {
	match := pagePattern.FindStringSubmatch(text)
	if match == nil {
		return 1
	}
	page, err := strconv.Atoi(match[1])
	if err != nil || page < 1 {
		return 1
	}
	return page
}
