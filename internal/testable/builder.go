package testable

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/nudibranch/nudi/cli/internal/form"
)

// Info describes a testable. A zero ID means a testable not yet created.
type Info struct {
	ID             int    `json:"id,omitempty" yaml:"id,omitempty"`
	Name           string `json:"name" yaml:"name"`
	Hidden         bool   `json:"hidden" yaml:"hidden"`
	Target         string `json:"target,omitempty" yaml:"target,omitempty"`
	Executable     string `json:"executable" yaml:"executable"`
	BuildFiles     []int  `json:"build_files" yaml:"build_files"`
	ExecutionFiles []int  `json:"execution_files" yaml:"execution_files"`
	ExpectedFiles  []int  `json:"expected_files" yaml:"expected_files"`
}

// IsNew reports whether the testable still has to be created.
func (i Info) IsNew() bool {
	return i.ID == 0
}

// Selected returns the ids chosen for one category.
func (i Info) Selected(cat Category) []int {
	switch cat {
	case BuildFiles:
		return i.BuildFiles
	case ExecutionFiles:
		return i.ExecutionFiles
	default:
		return i.ExpectedFiles
	}
}

// URL is the item URL of an existing testable.
func URL(id int) string {
	return fmt.Sprintf("/testable/%d", id)
}

// Build returns the create or update form of a testable. New testables are
// created with PUT /testable in projectID; existing ones are updated with
// POST /testable/{id}. Every catalog file becomes a checkbox, checked when
// the testable uses it; selected ids the catalog does not list are kept as
// checked boxes so an update never drops them.
func Build(info Info, projectID int, catalog *Catalog) (form.Form, error) {
	if strings.TrimSpace(info.Name) == "" {
		return form.Form{}, fmt.Errorf("testable name is required")
	}
	if strings.TrimSpace(info.Executable) == "" {
		return form.Form{}, fmt.Errorf("testable executable is required")
	}

	f := form.Form{Action: URL(info.ID), Method: http.MethodPost}
	if info.IsNew() {
		if projectID <= 0 {
			return form.Form{}, fmt.Errorf("a project id is required to create a testable")
		}
		f.Action = "/testable"
		f.Method = http.MethodPut
	}

	for _, cat := range Categories {
		f.Fields = append(f.Fields, fileChoices(cat, catalog.Entries(cat), info.Selected(cat))...)
	}

	f.Fields = append(f.Fields,
		form.Field{Name: "name", Label: "Testable Name", Value: info.Name},
		form.Field{Name: "make_target", Label: "Make Target", Value: info.Target},
		form.Field{Name: "executable", Label: "Executable", Value: info.Executable},
		form.Field{Name: "is_hidden", Type: form.FieldCheckbox, Label: "Hide results from students", Value: "1", Checked: info.Hidden},
	)
	if info.IsNew() {
		f.Fields = append(f.Fields, form.Field{Name: "project_id", Type: form.FieldHidden, Value: strconv.Itoa(projectID)})
	}
	return f, nil
}

func fileChoices(cat Category, entries []FileEntry, selected []int) []form.Field {
	fields := make([]form.Field, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		seen[e.ID] = true
		fields = append(fields, form.Field{
			Name:    cat.FieldName(),
			Type:    form.FieldCheckbox,
			Label:   e.Name,
			Value:   strconv.Itoa(e.ID),
			Checked: slices.Contains(selected, e.ID),
		})
	}
	for _, id := range selected {
		if seen[id] {
			continue
		}
		seen[id] = true
		fields = append(fields, form.Field{
			Name:    cat.FieldName(),
			Type:    form.FieldCheckbox,
			Label:   fmt.Sprintf("#%d", id),
			Value:   strconv.Itoa(id),
			Checked: true,
		})
	}
	return fields
}

// FileForm is the form registering an uploaded file as a build or
// execution file of a project. The file field resolves to a file id on
// submission.
func FileForm(cat Category, projectID int, path, filename string) (form.Form, error) {
	if cat == ExpectedFiles {
		return form.Form{}, fmt.Errorf("expected files are defined with a verifier, not uploaded")
	}
	if projectID <= 0 {
		return form.Form{}, fmt.Errorf("a project id is required")
	}
	if strings.TrimSpace(path) == "" {
		return form.Form{}, fmt.Errorf("a file is required")
	}
	return form.Form{
		Action: cat.Path(),
		Method: http.MethodPut,
		Fields: []form.Field{
			{Name: "file_id", Type: form.FieldFile, Files: []string{path}},
			{Name: "filename", Value: filename},
			{Name: "project_id", Type: form.FieldHidden, Value: strconv.Itoa(projectID)},
		},
	}, nil
}
