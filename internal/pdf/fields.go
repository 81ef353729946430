package pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/rs/zerolog"
)

// Field flag bits from the AcroForm Ff entry
const (
	flagReadOnly = 1 << 0
	flagRequired = 1 << 1
)

// FieldLister reads the AcroForm field tree of a template
type FieldLister struct {
	logger zerolog.Logger
}

// NewFieldLister creates a field lister
func NewFieldLister(logger zerolog.Logger) *FieldLister {
	return &FieldLister{logger: logger}
}

// ListFile lists the terminal form fields of the PDF at path
func (fl *FieldLister) ListFile(path string) ([]TemplateField, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer file.Close()

	return fl.List(file)
}

// List lists the terminal form fields of the PDF read from rs. Nested fields
// are named with their dotted full name.
func (fl *FieldLister) List(rs io.ReadSeeker) (fields []TemplateField, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields, err = nil, fmt.Errorf("failed to read form fields: %v", r)
		}
	}()

	ctx, err := readContext(rs)
	if err != nil {
		return nil, err
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		fl.logger.Debug().Msg("no AcroForm dictionary in template")
		return nil, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for i, obj := range fieldsArray {
		fields = fl.walk(ctx, obj, "", "", fields, i)
	}
	return fields, nil
}

// walk appends the terminal fields under obj. Type and flags are inherited
// from ancestors when a kid does not set them.
func (fl *FieldLister) walk(ctx *model.Context, obj types.Object, prefix, inheritedType string, out []TemplateField, index int) []TemplateField {
	dict, err := ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		fl.logger.Debug().Int("index", index).Err(err).Msg("skipping unreadable form field")
		return out
	}

	name := prefix
	if nameObj, found := dict.Find("T"); found {
		if partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && partial != "" {
			if name != "" {
				name += "."
			}
			name += partial
		}
	}

	fieldType := inheritedType
	if ftObj, found := dict.Find("FT"); found {
		if ft, err := ctx.DereferenceName(ftObj, model.V10, nil); err == nil {
			fieldType = string(ft)
		}
	}

	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil && hasNamedKid(ctx, kids) {
			for i, kid := range kids {
				out = fl.walk(ctx, kid, name, fieldType, out, i)
			}
			return out
		}
	}

	if name == "" {
		name = fmt.Sprintf("field_%d", index)
	}

	field := TemplateField{Name: name, Type: fieldTypeName(fieldType)}
	if flagsObj, found := dict.Find("Ff"); found {
		if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
			field.ReadOnly = *flags&flagReadOnly != 0
			field.Required = *flags&flagRequired != 0
		}
	}
	return append(out, field)
}

// hasNamedKid distinguishes a parent field from a field whose kids are only
// widget annotations.
func hasNamedKid(ctx *model.Context, kids types.Array) bool {
	for _, kid := range kids {
		d, err := ctx.DereferenceDict(kid)
		if err != nil || d == nil {
			continue
		}
		if _, found := d.Find("T"); found {
			return true
		}
	}
	return false
}

func fieldTypeName(ft string) string {
	switch ft {
	case "Tx":
		return "text"
	case "Btn":
		return "button"
	case "Ch":
		return "choice"
	case "Sig":
		return "signature"
	default:
		return "unknown"
	}
}

func readContext(rs io.ReadSeeker) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}
