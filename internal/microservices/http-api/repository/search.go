package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern for a substring match.
// Wildcards typed by the user match literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// ilike is the condition paired with containsPattern.
func ilike(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}
