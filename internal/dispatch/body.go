package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Body is the JSON object the server answers form requests with. Every key
// is optional; which ones are required depends on the status.
type Body struct {
	Message       *string  `json:"message"`
	Error         string   `json:"error"`
	Messages      Messages `json:"messages"`
	RedirLocation string   `json:"redir_location"`
}

// Messages accepts either a single string or a list of strings.
type Messages []string

func (m *Messages) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*m = Messages{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("messages must be a string or a list of strings")
	}
	*m = many
	return nil
}

func parseBody(data []byte) (*Body, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	var b Body
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &b, nil
}

// combined joins error and every message, one per line.
func (b *Body) combined() string {
	var buf bytes.Buffer
	buf.WriteString(b.Error)
	for i, msg := range b.Messages {
		if i > 0 || b.Error != "" {
			buf.WriteByte('\n')
		}
		buf.WriteString(msg)
	}
	return buf.String()
}
