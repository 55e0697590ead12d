package activities

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rotation keys and key prefixes used by the activities.
const (
	SentencePrefix = "sentence:"
	ReadingPrefix  = "reading:"
	ImageKey       = "image"
	MythKey        = "myth"
)

// ReadingLevels lists the accepted reading passage levels.
var ReadingLevels = []string{"Easy", "Medium", "Hard"}

// SentenceKey returns the rotation key for sentences of level.
func SentenceKey(level string) string {
	return SentencePrefix + strings.TrimSpace(level)
}

// ReadingKey returns the rotation key for passages of an already
// normalised level.
func ReadingKey(level string) string {
	return ReadingPrefix + level
}

// NormalizeReadingLevel capitalises level ("easy" becomes "Easy") and reports
// whether it is one of ReadingLevels.
func NormalizeReadingLevel(level string) (string, bool) {
	level = strings.TrimSpace(level)
	if level == "" {
		return "", false
	}
	normalized := cases.Title(language.English).String(strings.ToLower(level))
	for _, allowed := range ReadingLevels {
		if normalized == allowed {
			return normalized, true
		}
	}
	return normalized, false
}
