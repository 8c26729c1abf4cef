package utils

import (
	"strings"
	"unicode/utf8"
)

func ContainsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Truncate cuts s to limit characters and marks the cut with "...".
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// StripCodeFence removes a surrounding markdown code fence such as ```json ... ```.
// Text without an opening fence is returned trimmed and otherwise untouched.
func StripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}

	response = strings.TrimPrefix(response, "```")
	if nl := strings.IndexByte(response, '\n'); nl >= 0 && !strings.ContainsAny(response[:nl], "{[\"") {
		// language tag line, e.g. "json"
		response = response[nl+1:]
	} else if strings.HasPrefix(strings.ToLower(response), "json") {
		response = response[len("json"):]
	}
	response = strings.TrimSpace(response)
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
