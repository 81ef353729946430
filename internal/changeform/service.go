package changeform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/a3tai/pcp-change-form/internal/extract"
	"github.com/a3tai/pcp-change-form/internal/pdf"
	"github.com/a3tai/pcp-change-form/internal/pdf/security"
	"github.com/rs/zerolog"
)

// DefaultReason is written into the reason field when none is configured
const DefaultReason = "Member request"

// Filler renders form values into a template
type Filler interface {
	Fill(ctx context.Context, templatePath string, values map[string]string) ([]byte, error)
}

// TemplateValidator checks that the template can be opened
type TemplateValidator interface {
	Inspect(path string) *pdf.TemplateInfo
}

// FieldLister lists the form fields of a template
type FieldLister interface {
	ListFile(path string) ([]pdf.TemplateField, error)
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	TemplatePath string
	Reason       string
	Filler       Filler
	Validator    TemplateValidator
	Fields       FieldLister
	Logger       zerolog.Logger
	Now          func() time.Time
}

// Service turns pasted text into a filled PCP change form
type Service struct {
	parser       *extract.Parser
	filler       Filler
	validator    TemplateValidator
	fields       FieldLister
	templatePath string
	reason       string
	logger       zerolog.Logger
	now          func() time.Time
}

// Entry is one paired patient row with the details of its note
type Entry struct {
	Patient  extract.PatientRecord  `json:"patient"`
	Note     string                 `json:"note"`
	Change   extract.NoteChangeInfo `json:"change"`
	Problems []string               `json:"problems,omitempty"`
	Filename string                 `json:"filename"`
}

// Result is the outcome of running the extraction pipeline on a text block
type Result struct {
	Entries      []Entry `json:"entries"`
	Notes        int     `json:"notes"`
	Patients     int     `json:"patients"`
	SkippedLines int     `json:"skipped_lines"`
}

// Prepared is a validated entry with the values to write into the form
type Prepared struct {
	Entry
	Form Form `json:"form"`
}

// Document is a generated form
type Document struct {
	*Prepared
	Content []byte `json:"-"`
}

// TemplateReport describes the configured template and which required
// fields it lacks.
type TemplateReport struct {
	*pdf.TemplateInfo
	Missing []string `json:"missing,omitempty"`
}

// NewService creates a change form service
func NewService(opts Options) *Service {
	if opts.Reason == "" {
		opts.Reason = DefaultReason
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		parser:       extract.NewParser(opts.Logger),
		filler:       opts.Filler,
		validator:    opts.Validator,
		fields:       opts.Fields,
		templatePath: opts.TemplatePath,
		reason:       opts.Reason,
		logger:       opts.Logger.With().Str("component", "changeform").Logger(),
		now:          opts.Now,
	}
}

// TemplatePath returns the configured template path
func (s *Service) TemplatePath() string {
	return s.templatePath
}

// Extract runs the pipeline and reports every pair with its problems.
// It never fails; an empty Entries means nothing matched.
func (s *Service) Extract(text string) *Result {
	split := s.parser.Split(text)
	pairs := extract.Pair(split.Notes, split.Patients)

	result := &Result{
		Entries:      make([]Entry, 0, len(pairs)),
		Notes:        len(split.Notes),
		Patients:     len(split.Patients),
		SkippedLines: split.SkippedLines,
	}
	for _, p := range pairs {
		info := extract.ParseNote(p.Note)
		result.Entries = append(result.Entries, Entry{
			Patient:  p.Patient,
			Note:     p.Note,
			Change:   info,
			Problems: Problems(info),
			Filename: FilenameFor(p.Patient, s.now()),
		})
	}
	return result
}

// Prepare extracts exactly one entry from text and validates it
func (s *Service) Prepare(text string) (*Prepared, error) {
	result := s.Extract(text)

	switch len(result.Entries) {
	case 0:
		return nil, newError(KindNoMatch, MsgNoMatch, nil)
	case 1:
	default:
		return nil, newError(KindUnsupportedShape, MsgMultiplePatients,
			fmt.Errorf("%d pairs found", len(result.Entries)))
	}

	entry := result.Entries[0]
	if err := Validate(entry.Change); err != nil {
		return nil, err
	}

	return &Prepared{
		Entry: entry,
		Form:  BuildForm(entry.Patient, entry.Change, s.reason),
	}, nil
}

// Generate prepares text and fills the template with the result
func (s *Service) Generate(ctx context.Context, text string) (*Document, error) {
	prepared, err := s.Prepare(text)
	if err != nil {
		return nil, err
	}

	if s.validator != nil {
		if info := s.validator.Inspect(s.templatePath); !info.Valid {
			s.logger.Error().Str("template", s.templatePath).Str("reason", info.Message).Msg("template unusable")
			return nil, newError(KindTemplate, MsgFillFailed, fmt.Errorf("template %s: %s", s.templatePath, info.Message))
		}
	}

	if s.filler == nil {
		return nil, newError(KindFill, MsgFillFailed, fmt.Errorf("no form filler configured"))
	}

	content, err := s.filler.Fill(ctx, s.templatePath, prepared.Form)
	if err != nil {
		s.logger.Error().Err(err).Str("template", s.templatePath).Msg("form fill failed")
		return nil, newError(KindFill, MsgFillFailed, err)
	}

	s.logger.Info().
		Str("filename", prepared.Filename).
		Str("new_pcp", prepared.Change.NewPhysician).
		Int("bytes", len(content)).
		Msg("generated change form")

	return &Document{Prepared: prepared, Content: content}, nil
}

// Save generates the form and writes it into dir under its generated name
func (s *Service) Save(ctx context.Context, text, dir string) (string, error) {
	doc, err := s.Generate(ctx, text)
	if err != nil {
		return "", err
	}
	return s.SaveDocument(doc, dir)
}

// SaveDocument writes an already generated form into dir under its generated
// name. The file appears atomically; a partial write never leaves a file
// behind.
func (s *Service) SaveDocument(doc *Document, dir string) (string, error) {
	if doc == nil || doc.Prepared == nil {
		return "", newError(KindFill, MsgSaveFailed, fmt.Errorf("no document to save"))
	}

	validator, err := security.NewPathValidator(dir)
	if err != nil {
		return "", newError(KindFill, MsgSaveFailed, err)
	}
	if err := validator.EnsureDirectory(); err != nil {
		return "", newError(KindFill, MsgSaveFailed, err)
	}

	path, err := validator.ResolveFile(doc.Filename)
	if err != nil {
		return "", newError(KindFill, MsgSaveFailed, err)
	}

	if err := writeFileAtomic(path, doc.Content); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("saving change form failed")
		return "", newError(KindFill, MsgSaveFailed, err)
	}

	s.logger.Info().Str("path", path).Msg("saved change form")
	return path, nil
}

func writeFileAtomic(path string, content []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pcp-change-form-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move temp file into place: %w", err)
	}
	return nil
}

// TemplateReport inspects the configured template and lists the required
// fields it does not carry.
func (s *Service) TemplateReport() *TemplateReport {
	var info *pdf.TemplateInfo
	if s.validator != nil {
		info = s.validator.Inspect(s.templatePath)
	} else {
		info = &pdf.TemplateInfo{Path: s.templatePath, Valid: true}
	}

	report := &TemplateReport{TemplateInfo: info}
	if !info.Valid || s.fields == nil {
		return report
	}

	fields, err := s.fields.ListFile(s.templatePath)
	if err != nil {
		info.Valid = false
		info.Message = err.Error()
		return report
	}
	info.Fields = fields

	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f.Name] = true
	}
	for _, name := range FieldNames {
		if !present[name] {
			report.Missing = append(report.Missing, name)
		}
	}
	return report
}
