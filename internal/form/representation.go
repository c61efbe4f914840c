package form

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Separator splits field names into nested keys.
const Separator = "."

const listSuffix = "[]"

// Representation is the flattened form as submitted: field names are dotted
// paths into nested maps, names ending in [] collect into lists.
type Representation map[string]any

// Flatten builds the representation of a form's fields. With skipEmpty,
// fields whose value is the empty string are left out.
func Flatten(fields []Field, skipEmpty bool) (Representation, error) {
	rep := Representation{}
	for _, field := range fields {
		if !field.submitted() {
			continue
		}
		raw := field.value()
		if skipEmpty && raw == "" {
			continue
		}
		value, err := convert(field, raw)
		if err != nil {
			return nil, err
		}
		if strings.HasSuffix(field.Name, listSuffix) {
			err = rep.Append(strings.TrimSuffix(field.Name, listSuffix), value)
		} else {
			err = rep.Set(field.Name, value)
		}
		if err != nil {
			return nil, err
		}
	}
	return rep, nil
}

func convert(field Field, raw string) (any, error) {
	if field.kind() != FieldNumber || raw == "" {
		return raw, nil
	}
	var n json.Number
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, fmt.Errorf("field %q: %q is not a number", field.Name, raw)
	}
	return n, nil
}

func splitPath(path string) ([]string, error) {
	keys := strings.Split(path, Separator)
	for _, k := range keys {
		if k == "" {
			return nil, fmt.Errorf("invalid field path %q", path)
		}
	}
	return keys, nil
}

// parent walks to the map holding the last key of path, creating maps as
// needed.
func (r Representation) parent(path string) (map[string]any, string, error) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, "", err
	}
	cur := map[string]any(r)
	for _, k := range keys[:len(keys)-1] {
		next, ok := cur[k]
		if !ok {
			child := map[string]any{}
			cur[k] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return nil, "", fmt.Errorf("field path %q: %q is not an object", path, k)
		}
		cur = child
	}
	return cur, keys[len(keys)-1], nil
}

// Set stores value at path, overwriting any scalar already there.
func (r Representation) Set(path string, value any) error {
	m, key, err := r.parent(path)
	if err != nil {
		return err
	}
	if _, ok := m[key].(map[string]any); ok {
		return fmt.Errorf("field path %q: cannot overwrite an object", path)
	}
	m[key] = value
	return nil
}

// Append adds value to the list at path.
func (r Representation) Append(path string, value any) error {
	m, key, err := r.parent(path)
	if err != nil {
		return err
	}
	switch cur := m[key].(type) {
	case nil:
		m[key] = []any{value}
	case []any:
		m[key] = append(cur, value)
	default:
		return fmt.Errorf("field path %q: not a list", path)
	}
	return nil
}

// Get returns the value at path.
func (r Representation) Get(path string) (any, bool) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	var cur any = map[string]any(r)
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// JSON serializes the representation as the request body.
func (r Representation) JSON() ([]byte, error) {
	data, err := json.Marshal(map[string]any(r))
	if err != nil {
		return nil, fmt.Errorf("marshal form: %w", err)
	}
	return data, nil
}
