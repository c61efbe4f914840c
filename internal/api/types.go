package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FileID is a server file identifier. The server sends it as a number, but
// a string is accepted too; either way it is kept in its decimal string form.
type FileID string

func (f *FileID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FileID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("file_id must be a string or number, got %s", data)
	}
	*f = FileID(n.String())
	return nil
}

func (f FileID) String() string {
	return string(f)
}

// --- Files ---

// FileRecord is the server's view of a stored file, addressed by digest.
type FileRecord struct {
	FileID   FileID `json:"file_id"`
	OwnsFile bool   `json:"owns_file,omitempty"`
}

// PutFileInput is the body of PUT /file/{digest}.
type PutFileInput struct {
	B64Data string `json:"b64data"`
}

// --- Session ---

// LoginInput is the body of PUT /session.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Dst      string `json:"dst,omitempty"`
}

// --- Projects ---

// ProjectInfo is returned by GET /project/{id}/info.
type ProjectInfo struct {
	ID        int                        `json:"id"`
	Name      string                     `json:"name"`
	Testables map[string]TestableSummary `json:"testables"`
}

// TestableSummary lists a testable and its test cases by name.
type TestableSummary struct {
	ID        int                     `json:"id"`
	TestCases map[string]TestCaseInfo `json:"test_cases"`
}

// TestCaseInfo describes one test case of a testable.
type TestCaseInfo struct {
	ID             int     `json:"id"`
	Args           string  `json:"args"`
	Source         string  `json:"source"`
	Stdin          *string `json:"stdin"`
	Expected       *string `json:"expected"`
	OutputType     string  `json:"output_type"`
	OutputFilename *string `json:"output_filename"`
}
