package extract

import (
	"regexp"
	"strings"
	"time"
)

// attempt tries to resolve one field from note text. ok is false when the
// attempt found nothing usable.
type attempt func(text string) (value string, ok bool)

// firstOf runs attempts in order and returns the first successful value
func firstOf(text string, attempts ...attempt) string {
	for _, try := range attempts {
		if v, ok := try(text); ok {
			return v
		}
	}
	return ""
}

const datePattern = `(\d{1,2}/\d{1,2}/\d{2,4})`

var effectiveDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)EFF\s+DATE\s+RETRO\s+` + datePattern),
	regexp.MustCompile(`(?i)EFFECTIVE\s+DATE\s+` + datePattern),
	regexp.MustCompile(`(?i)EFFECTIVE\s+` + datePattern),
	regexp.MustCompile(`(?i)EFF\s+DATE\s+` + datePattern),
	regexp.MustCompile(`(?i)EFF\s+(\d{1,2}/?0?\d{1,2}/\d{2,4})`),
	regexp.MustCompile(`(?i)` + datePattern + `\s*(?:` + strings.Join(dateTerminators, "|") + `|$)`),
}

// trailingDate is the last resort: a dated line ending in uppercase words
var trailingDate = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*[A-Z]+\s*$`)

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`REF\s*#?\s*([A-Z0-9][A-Z0-9/-]*)`),
	regexp.MustCompile(`REF\.([A-Z0-9/-]+)`),
	regexp.MustCompile(`REF\s*\.\s*([A-Z0-9/-]+)`),
	regexp.MustCompile(`(?:^|\s)(?:REF|SFA)[-\s]*([A-Z0-9/-]+)`),
	regexp.MustCompile(`(I-\d+)`),
}

var agentSignature = regexp.MustCompile(`([A-Za-z]+),\s*([A-Za-z]+)\s+\d{2}/\d{2}/\d{4}`)

// ParseNote resolves the new physician, effective date, reference number and
// agent from one note line. Each field is resolved independently and left
// empty when nothing matches.
func ParseNote(note string) NoteChangeInfo {
	return NoteChangeInfo{
		NewPhysician:    ResolvePhysician(note),
		EffectiveDate:   ResolveEffectiveDate(note),
		ReferenceNumber: ResolveReference(note),
		AgentName:       ResolveAgent(note),
	}
}

// ResolvePhysician returns the display name of the first table key contained
// in the uppercased note.
func ResolvePhysician(note string) string {
	upper := strings.ToUpper(note)
	for _, p := range physicianTable {
		if strings.Contains(upper, p.Key) {
			return p.Display
		}
	}
	return ""
}

// ResolveEffectiveDate returns the effective date as MM/DD/YYYY or ""
func ResolveEffectiveDate(note string) string {
	attempts := make([]attempt, 0, len(effectiveDatePatterns)+1)
	for _, re := range effectiveDatePatterns {
		attempts = append(attempts, loosePatternDate(re))
	}
	attempts = append(attempts, trailingDateAttempt)
	return firstOf(note, attempts...)
}

func loosePatternDate(re *regexp.Regexp) attempt {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return parseLooseDate(m[1])
	}
}

func trailingDateAttempt(text string) (string, bool) {
	m := trailingDate.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	t, err := time.Parse(layoutFourDigitYear, m[1])
	if err != nil {
		return "", false
	}
	return t.Format(layoutDisplay), true
}

// parseLooseDate strips zero-slash artifacts and parses with a two or four
// digit year depending on the year token.
func parseLooseDate(s string) (string, bool) {
	s = strings.ReplaceAll(s, "0/", "/")
	s = strings.ReplaceAll(s, "/0", "/")

	layout := layoutFourDigitYear
	if i := strings.LastIndex(s, "/"); i >= 0 && len(s[i+1:]) == 2 {
		layout = layoutTwoDigitYear
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}
	return t.Format(layoutDisplay), true
}

// ResolveReference returns the first reference number found, or ""
func ResolveReference(note string) string {
	attempts := make([]attempt, 0, len(referencePatterns))
	for _, re := range referencePatterns {
		attempts = append(attempts, captureGroup(re))
	}
	return firstOf(note, attempts...)
}

func captureGroup(re *regexp.Regexp) attempt {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			return "", false
		}
		return m[1], true
	}
}

// ResolveAgent returns the agent who signed the note as "First Last", or ""
func ResolveAgent(note string) string {
	upper := strings.ToUpper(note)
	if strings.Contains(upper, "GALVEZ") && strings.Contains(upper, "NANCY") {
		return "Nancy Galvez"
	}
	m := agentSignature.FindStringSubmatch(note)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[2] + " " + m[1])
}
