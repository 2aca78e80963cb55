package utils

import "strings"

// Telegram rejects messages above 4096 chars; stay under it with room for markup.
const telegramTextLimit = 3800

// TruncateForTelegram cuts text to fit a single Telegram message, marking the cut.
func TruncateForTelegram(text string) string {
	if len(text) <= telegramTextLimit {
		return text
	}
	return text[:telegramTextLimit] + "\n\n[truncated]"
}

// EscapeMarkdown escapes characters Telegram's legacy Markdown parser chokes on.
func EscapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)
	return replacer.Replace(text)
}
