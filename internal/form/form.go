// Package form models submittable forms: typed input fields, their
// flattening into a JSON representation keyed by dotted paths, and loading
// form definitions from YAML or JSON files.
package form

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// FieldType mirrors the input element types a form can hold.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldHidden   FieldType = "hidden"
	FieldPassword FieldType = "password"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldSelect   FieldType = "select"
	FieldFile     FieldType = "file"
)

// checkedDefault is what browsers submit for a checked box with no value.
const checkedDefault = "on"

// Field is one input element.
type Field struct {
	Name     string    `yaml:"name" json:"name"`
	Type     FieldType `yaml:"type,omitempty" json:"type,omitempty"`
	Label    string    `yaml:"label,omitempty" json:"label,omitempty"`
	Value    string    `yaml:"value,omitempty" json:"value,omitempty"`
	Checked  bool      `yaml:"checked,omitempty" json:"checked,omitempty"`
	Disabled bool      `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	// Files holds the selected local paths of a file input.
	Files []string `yaml:"files,omitempty" json:"files,omitempty"`
}

// Form is a submittable set of fields with its target.
type Form struct {
	Action string  `yaml:"action" json:"action"`
	Method string  `yaml:"method,omitempty" json:"method,omitempty"`
	Fields []Field `yaml:"fields" json:"fields"`
}

func (f Field) kind() FieldType {
	if f.Type == "" {
		return FieldText
	}
	return FieldType(strings.ToLower(string(f.Type)))
}

// IsFile reports whether the field is a file input.
func (f Field) IsFile() bool {
	return f.kind() == FieldFile
}

// Selected returns the first selected file, if any. Only the first file of
// a multi-file input is ever uploaded.
func (f Field) Selected() (string, bool) {
	if !f.IsFile() || len(f.Files) == 0 || f.Files[0] == "" {
		return "", false
	}
	return f.Files[0], true
}

// submitted reports whether the field contributes a value at all.
func (f Field) submitted() bool {
	if f.Disabled || f.Name == "" {
		return false
	}
	switch f.kind() {
	case FieldCheckbox, FieldRadio:
		return f.Checked
	}
	return true
}

// value is what the field contributes before any file resolution. A file
// input contributes the base name of its first selected file; a checked box
// without a value contributes "on".
func (f Field) value() string {
	switch f.kind() {
	case FieldFile:
		path, ok := f.Selected()
		if !ok {
			return ""
		}
		return filepath.Base(path)
	case FieldCheckbox, FieldRadio:
		if f.Value == "" {
			return checkedDefault
		}
	}
	return f.Value
}

// FileFields returns the file inputs that have at least one selected file.
func (f Form) FileFields() []Field {
	var out []Field
	for _, field := range f.Fields {
		if field.Disabled {
			continue
		}
		if _, ok := field.Selected(); ok {
			out = append(out, field)
		}
	}
	return out
}

// Validate checks that the form can be submitted.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Action) == "" {
		return fmt.Errorf("form has no action")
	}
	if f.Method != "" {
		switch strings.ToUpper(f.Method) {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return fmt.Errorf("unsupported form method %q", f.Method)
		}
	}
	for i, field := range f.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("field %d has no name", i)
		}
		switch field.kind() {
		case FieldText, FieldHidden, FieldPassword, FieldTextarea, FieldNumber,
			FieldCheckbox, FieldRadio, FieldSelect, FieldFile:
		default:
			return fmt.Errorf("field %q: unknown type %q", field.Name, field.Type)
		}
		if field.IsFile() && strings.HasSuffix(field.Name, listSuffix) {
			return fmt.Errorf("field %q: file inputs cannot be lists", field.Name)
		}
	}
	return nil
}
