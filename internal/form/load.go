package form

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a form definition from a YAML or JSON file. Relative file
// paths in file inputs are resolved against the form file's directory.
func Load(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range f.Fields {
		for j, p := range f.Fields[i].Files {
			if p != "" && !filepath.IsAbs(p) {
				f.Fields[i].Files[j] = filepath.Join(dir, p)
			}
		}
	}
	return f, nil
}

// Parse decodes and validates a form definition. JSON is accepted as YAML.
func Parse(data []byte) (*Form, error) {
	var f Form
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
