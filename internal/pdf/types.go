package pdf

// TemplateField describes one AcroForm field of the change form template
type TemplateField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ReadOnly bool   `json:"read_only,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// TemplateInfo summarizes a form template on disk
type TemplateInfo struct {
	Path    string          `json:"path"`
	Valid   bool            `json:"valid"`
	Message string          `json:"message,omitempty"`
	Pages   int             `json:"pages,omitempty"`
	Size    int64           `json:"size,omitempty"`
	Fields  []TemplateField `json:"fields,omitempty"`
}

// FieldNames returns the names of fields in template order
func (ti *TemplateInfo) FieldNames() []string {
	names := make([]string, 0, len(ti.Fields))
	for _, f := range ti.Fields {
		names = append(names, f.Name)
	}
	return names
}
