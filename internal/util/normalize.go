package util

import (
	"regexp"
	"strings"
)

var (
	nameSplitRe = regexp.MustCompile(`[,\n]`)
	slugQuoteRe = regexp.MustCompile(`[\x{2018}\x{2019}']`)
	slugRunRe   = regexp.MustCompile(`[^a-z0-9]+`)
	iconRe      = regexp.MustCompile(`(?i)\[(?:icon|eicon)\]`)
)

// ParseNames splits a user-entered list of character names.
// - Separators are commas and newlines
// - Each entry is trimmed
// - Empty entries are dropped
// Order and duplicates are preserved.
func ParseNames(value string) []string {
	var names []string
	for _, p := range nameSplitRe.Split(value, -1) {
		p = strings.TrimSpace(strings.TrimSuffix(p, "\r"))
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}

// FormatNames is the inverse of ParseNames for display and storage.
func FormatNames(names []string) string {
	return strings.Join(names, ", ")
}

// CanonSlug reduces a channel title to a comparable slug:
// "Monster's Lair" -> "monsters-lair", "Ferals / Bestiality" -> "ferals-bestiality".
func CanonSlug(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = slugQuoteRe.ReplaceAllString(s, "")
	s = slugRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CountIcons counts [icon] and [eicon] tags, case-insensitively.
func CountIcons(text string) int {
	return len(iconRe.FindAllStringIndex(text, -1))
}
