package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validator checks that a form template is a readable PDF within size limits
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new template validator
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// Inspect validates the template at path and reports its page count. A
// template that fails validation is reported through Valid and Message
// rather than an error.
func (v *Validator) Inspect(path string) *TemplateInfo {
	info := &TemplateInfo{Path: path}

	pages, size, err := v.validateTemplate(path)
	if err != nil {
		info.Message = err.Error()
		return info
	}

	info.Valid = true
	info.Pages = pages
	info.Size = size
	return info
}

// Validate returns an error when the template at path is unusable
func (v *Validator) Validate(path string) error {
	_, _, err := v.validateTemplate(path)
	return err
}

func (v *Validator) validateTemplate(path string) (pages int, size int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, size, err = 0, 0, fmt.Errorf("invalid PDF template: %v", r)
		}
	}()

	if path == "" {
		return 0, 0, fmt.Errorf("template path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, 0, fmt.Errorf("template does not exist: %s", path)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("cannot access template: %w", err)
	}

	if fileInfo.IsDir() {
		return 0, 0, fmt.Errorf("template path is a directory: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return 0, 0, fmt.Errorf("template is not a PDF: %s", path)
	}

	if fileInfo.Size() == 0 {
		return 0, 0, fmt.Errorf("template is empty: %s", path)
	}

	if fileInfo.Size() > v.maxFileSize {
		return 0, 0, fmt.Errorf("template too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid PDF template: %w", err)
	}
	defer f.Close()

	return r.NumPage(), fileInfo.Size(), nil
}
