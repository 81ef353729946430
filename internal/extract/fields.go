package extract

import (
	"regexp"
	"strings"
	"time"
)

// Date layouts. Go's single-digit month/day layouts accept zero-padded input too.
const (
	layoutFourDigitYear = "1/2/2006"
	layoutTwoDigitYear  = "1/2/06"
	layoutDisplay       = "01/02/2006"
)

var (
	nonDigits      = regexp.MustCompile(`\D`)
	filenameUnsafe = regexp.MustCompile(`[<>:"/\\|?*']`)
)

// ExtractNumericID returns the ASCII digits of s in order
func ExtractNumericID(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// StandardizePCPName maps the known spellings of Dr. De Silva to the form's
// display name. Other names are returned unchanged.
func StandardizePCPName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "de silva", "dr de silva", "dr. de silva":
		return "Janesri De Silva M.D."
	}
	return name
}

// SanitizeFilename replaces characters that are unsafe in file names with '_'
func SanitizeFilename(s string) string {
	return filenameUnsafe.ReplaceAllString(s, "_")
}

// FormatPhone reformats a 10-digit number as NNN-NNN-NNNN. Anything else is
// returned as passed in.
func FormatPhone(s string) string {
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) != 10 {
		return s
	}
	return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
}

// NormalizeDate parses a month/day/4-digit-year date and returns it as
// MM/DD/YYYY, or "" when it does not parse.
func NormalizeDate(s string) string {
	t, err := time.Parse(layoutFourDigitYear, s)
	if err != nil {
		return ""
	}
	return t.Format(layoutDisplay)
}
