package common

import "strings"

// AppendedText returns what `current` adds on top of `previous`. Displays which can only append (a terminal, a chat)
// use it to show full-text snapshots incrementally. If `current` doesn't extend `previous`, all of it is new.
func AppendedText(previous, current string) string {
	if strings.HasPrefix(current, previous) {
		return current[len(previous):]
	}
	return current
}

// NonEmptyLines splits `text` into lines, dropping blank ones.
func NonEmptyLines(text string) []string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}
