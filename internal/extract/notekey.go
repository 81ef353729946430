package extract

import (
	"regexp"
	"strings"
)

var (
	noteTimestamp = regexp.MustCompile(`\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2}:\d{2}\s*(?:AM|PM)\s*>`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	staffMention  = regexp.MustCompile(`(?:` + strings.Join(staffNames, "|") + `)(?:\s+\w+)?`)
)

// NormalizeNote reduces a note line to the key used for duplicate detection.
// The key is never used for extraction.
func NormalizeNote(line string) string {
	if loc := noteTimestamp.FindStringIndex(line); loc != nil {
		line = line[:loc[0]] + line[loc[1]:]
	}
	line = whitespaceRun.ReplaceAllString(line, " ")
	line = staffMention.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}
