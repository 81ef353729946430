package extract

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// Parser turns a pasted text block into notes and patient records.
// A Parser holds no per-parse state and is safe for concurrent use.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a parser that reports skipped lines to logger
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger.With().Str("component", "extract").Logger()}
}

// Split classifies every non-blank line of text as a note, a patient row or
// noise. Lines are matched as pasted, with no Unicode folding. Notes are
// deduplicated by their normalized key and keep the text of the first
// occurrence.
func (p *Parser) Split(text string) SplitResult {
	var result SplitResult
	seen := make(map[string]bool)

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if IsNoteLine(line) {
			key := NormalizeNote(line)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			result.Notes = append(result.Notes, line)
			continue
		}

		if !IsPatientLine(line) {
			continue
		}
		rec, err := p.parsePatientLineSafe(i+1, line)
		if err != nil {
			result.SkippedLines++
			if errors.Is(err, errShortRow) {
				p.logger.Debug().Int("line", i+1).Msg("skipping patient row with too few columns")
			}
			continue
		}
		result.Patients = append(result.Patients, rec)
	}

	p.logger.Debug().
		Int("notes", len(result.Notes)).
		Int("patients", len(result.Patients)).
		Int("skipped", result.SkippedLines).
		Msg("split input")
	return result
}

// Parse splits text and pairs notes with patients by position
func (p *Parser) Parse(text string) []Pairing {
	split := p.Split(text)
	return Pair(split.Notes, split.Patients)
}

// IsNoteLine reports whether line carries a PCP change trigger phrase and an
// AM/PM prompt marker.
func IsNoteLine(line string) bool {
	return containsAny(strings.ToUpper(line), triggerPhrases) && containsAny(line, timestampMarkers)
}

// IsPatientLine reports whether line is tab-delimited and free of staff names
func IsPatientLine(line string) bool {
	return strings.Contains(line, "\t") && !containsAny(line, staffNames)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
