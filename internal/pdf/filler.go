package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"
)

// formGroup mirrors the JSON document accepted by pdfcpu's form filler
type formGroup struct {
	Forms []formData `json:"forms"`
}

type formData struct {
	TextFields []textFieldData `json:"textfield"`
}

type textFieldData struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

// Filler writes values into the text fields of a form template. Every filled
// field is locked so the result cannot be edited.
type Filler struct {
	logger zerolog.Logger
}

// NewFiller creates a form filler
func NewFiller(logger zerolog.Logger) *Filler {
	return &Filler{logger: logger}
}

// Fill returns a copy of the template at templatePath with values written
// into the fields named by the map keys. A panic inside pdfcpu on a
// malformed template is returned as an error.
func (f *Filler) Fill(ctx context.Context, templatePath string, values map[string]string) (content []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().
				Str("template", templatePath).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("pdfcpu panicked while filling form")
			content, err = nil, fmt.Errorf("failed to fill form: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := fillPayload(values)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.FillForm(file, bytes.NewReader(payload), &out, conf); err != nil {
		return nil, fmt.Errorf("failed to fill form: %w", err)
	}

	f.logger.Debug().
		Str("template", templatePath).
		Int("fields", len(values)).
		Int("bytes", out.Len()).
		Msg("filled form template")
	return out.Bytes(), nil
}

// fillPayload encodes values in field name order
func fillPayload(values map[string]string) ([]byte, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]textFieldData, 0, len(names))
	for _, name := range names {
		fields = append(fields, textFieldData{Name: name, Value: values[name], Locked: true})
	}

	payload, err := json.Marshal(formGroup{Forms: []formData{{TextFields: fields}}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode form values: %w", err)
	}
	return payload, nil
}
