package search

import "strings"

const maxTermLength = 255

// NormalizeTerm prepares user input for matching. It returns the empty string
// when there is nothing to search for (empty or whitespace-only input), and the
// lowercased term otherwise. Surrounding spaces are kept because they're part of
// what the user asked to match.
func NormalizeTerm(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if len(input) > maxTermLength {
		input = input[:maxTermLength]
	}
	return strings.ToLower(input)
}

// Matches reports whether name contains the normalized term, ignoring case.
func Matches(name, normalizedTerm string) bool {
	if normalizedTerm == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), normalizedTerm)
}
