// Package testable builds the forms used to create and edit testables: a
// project's named combination of build files, execution files and expected
// output verifiers.
package testable

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Category is one of the file sets a testable is built from.
type Category int

const (
	BuildFiles Category = iota
	ExecutionFiles
	ExpectedFiles
)

// Categories lists every category in display order.
var Categories = []Category{BuildFiles, ExecutionFiles, ExpectedFiles}

// Label is the human name of one file in the category.
func (c Category) Label() string {
	switch c {
	case BuildFiles:
		return "Build File"
	case ExecutionFiles:
		return "Execution File"
	default:
		return "Expected File"
	}
}

// key is the field and route stem of the category.
func (c Category) key() string {
	switch c {
	case BuildFiles:
		return "build_file"
	case ExecutionFiles:
		return "execution_file"
	default:
		return "file_verifier"
	}
}

// FieldName is the list field selected ids are submitted under.
func (c Category) FieldName() string {
	return c.key() + "_ids[]"
}

// Path is the collection URL of the category's resources.
func (c Category) Path() string {
	return "/" + c.key()
}

// ItemURL is the URL of a single resource, used for deletion.
func (c Category) ItemURL(id int) string {
	return fmt.Sprintf("%s/%d", c.Path(), id)
}

// ParseCategory accepts "build", "execution" or "expected" and the route stems.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "build", "build_file":
		return BuildFiles, nil
	case "execution", "execution_file":
		return ExecutionFiles, nil
	case "expected", "file_verifier", "verifier":
		return ExpectedFiles, nil
	}
	return 0, fmt.Errorf("unknown file category %q", s)
}

// FileEntry is a file a project offers for one category.
type FileEntry struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	FileHex string `json:"file_hex,omitempty" yaml:"file_hex,omitempty"`
}

// Catalog holds the files a project offers, per category. It is passed
// explicitly to everything that renders or validates selections.
type Catalog struct {
	BuildFiles     []FileEntry `json:"build_files" yaml:"build_files"`
	ExecutionFiles []FileEntry `json:"execution_files" yaml:"execution_files"`
	ExpectedFiles  []FileEntry `json:"expected_files" yaml:"expected_files"`
}

// Entries returns the files of one category.
func (c *Catalog) Entries(cat Category) []FileEntry {
	if c == nil {
		return nil
	}
	switch cat {
	case BuildFiles:
		return c.BuildFiles
	case ExecutionFiles:
		return c.ExecutionFiles
	default:
		return c.ExpectedFiles
	}
}

// LoadCatalog reads a catalog from a JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &c, nil
}
