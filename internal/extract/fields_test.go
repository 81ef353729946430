package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNumericID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mixed", "12345X", "12345"},
		{"interleaved", "A1B2C3", "123"},
		{"no digits", "NEW", ""},
		{"empty", "", ""},
		{"non ascii digits ignored", "١٢3", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNumericID(tt.input))
		})
	}
}

func TestStandardizePCPName(t *testing.T) {
	assert.Equal(t, "Janesri De Silva M.D.", StandardizePCPName("  Dr. De Silva "))
	assert.Equal(t, "Janesri De Silva M.D.", StandardizePCPName("DE SILVA"))
	assert.Equal(t, "Dr. Park", StandardizePCPName("Dr. Park"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "O_Brien_ J_R", SanitizeFilename("O'Brien: J/R"))
	assert.Equal(t, "a_b_c_d_e_f_g", SanitizeFilename(`a<b>c|d?e*f\g`))
	assert.Equal(t, "plain name", SanitizeFilename("plain name"))
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"parenthesized", "(555) 123-4567", "555-123-4567"},
		{"bare digits", "5551234567", "555-123-4567"},
		{"dotted", "555.123.4567", "555-123-4567"},
		{"too short", "123-4567", "123-4567"},
		{"eleven digits", "1-555-123-4567", "1-555-123-4567"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.input))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"round trip", "01/02/2024", "01/02/2024"},
		{"single digit parts", "1/2/2024", "01/02/2024"},
		{"two digit year rejected", "01/02/24", ""},
		{"invalid day", "02/30/2024", ""},
		{"garbage", "tomorrow", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.input))
		})
	}
}
