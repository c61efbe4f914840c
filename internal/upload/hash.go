package upload

import (
	"crypto/sha1"
	"encoding/hex"
)

// Hasher computes the content digest files are addressed by on the server.
type Hasher interface {
	Digest(data []byte) string
}

// SHA1Hasher produces lowercase hex SHA-1 digests, the form the server
// validates uploads against.
type SHA1Hasher struct{}

func (SHA1Hasher) Digest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// HasherFunc adapts a function to Hasher.
type HasherFunc func([]byte) string

func (f HasherFunc) Digest(data []byte) string { return f(data) }
