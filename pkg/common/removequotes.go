package common

import "strings"

func RemoveSingleQuotesIfAny(str string) string {
	// Paths copied from a file manager often come as "'C:\Pictures'"
	if len(str) >= 2 && str[0] == '\'' && str[len(str)-1] == '\'' {
		str = str[1 : len(str)-1]
	}
	return str
}

func RemoveDoubleQuotesIfAny(str string) string {
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	return str
}

// CleanUserPath trims whitespace and surrounding quotes from a path typed or pasted by the user.
func CleanUserPath(path string) string {
	path = strings.TrimSpace(path)
	path = RemoveDoubleQuotesIfAny(path)
	path = RemoveSingleQuotesIfAny(path)
	return strings.TrimSpace(path)
}
