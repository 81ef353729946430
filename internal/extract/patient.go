package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const minPatientColumns = 7

// Column positions in a pasted patient row
const (
	colRequestDate = iota
	colInternalID
	colDateOfBirth
	colPatientName
	colOldPhysician
	colMemberID
	colPhone
)

var wrappedMemberID = regexp.MustCompile(`\*\*([0-9A-Z]+)\*\*`)

// Reasons a patient row is skipped
var (
	errShortRow  = errors.New("too few columns")
	errRowPanics = errors.New("row parsing panicked")
)

// ParsePatientLine converts one tab-delimited row into a PatientRecord.
// The boolean is false when the row has too few columns.
func ParsePatientLine(line string) (PatientRecord, bool) {
	columns := strings.Split(line, "\t")
	if len(columns) < minPatientColumns {
		return PatientRecord{}, false
	}

	return PatientRecord{
		RequestDate:  NormalizeDate(strings.TrimSpace(columns[colRequestDate])),
		InternalID:   ExtractNumericID(columns[colInternalID]),
		DateOfBirth:  NormalizeDate(strings.TrimSpace(columns[colDateOfBirth])),
		PatientName:  leftOf(columns[colPatientName], " DHS "),
		OldPhysician: leftOf(columns[colOldPhysician], "/"),
		MemberID:     unwrapMemberID(strings.TrimSpace(columns[colMemberID])),
		Phone:        FormatPhone(strings.TrimSpace(columns[colPhone])),
	}, true
}

// leftOf returns the trimmed text before the first sep, or all of s when sep is absent
func leftOf(s, sep string) string {
	if before, _, found := strings.Cut(s, sep); found {
		return strings.TrimSpace(before)
	}
	return strings.TrimSpace(s)
}

func unwrapMemberID(s string) string {
	if m := wrappedMemberID.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// parsePatientLineSafe wraps ParsePatientLine so a panic on a malformed row
// drops the row instead of the whole parse. The error says why the row was
// skipped; panics are logged here.
func (p *Parser) parsePatientLineSafe(lineNo int, line string) (rec PatientRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn().
				Int("line", lineNo).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("error processing patient row")
			rec, err = PatientRecord{}, errRowPanics
		}
	}()

	rec, ok := ParsePatientLine(line)
	if !ok {
		return PatientRecord{}, errShortRow
	}
	return rec, nil
}
