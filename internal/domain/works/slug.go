package works

import "strings"

// Slug is the lookup key used in artwork URLs: the lowercased title with
// spaces replaced by dashes. Example: "Blue Hour" -> "blue-hour"
//
// It matches the database expression LOWER(REPLACE(title, ' ', '-')).
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

// NormalizeSlug prepares a slug taken from a URL for lookup.
func NormalizeSlug(raw string) string {
	return Slug(strings.Trim(strings.TrimSpace(raw), "/"))
}
