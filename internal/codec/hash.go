package codec

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roach88/hashdrift/internal/graph"
)

// DigestLen is the length of a hex digest returned by Hash.
const DigestLen = sha256.Size * 2

// Hash encodes v under protocol p and returns the lowercase hex SHA-256
// of the stream.
//
// Hashing the same graph twice in one process yields the same digest.
// Errors are those of Encode.
func Hash(v graph.Value, p Protocol) (string, error) {
	data, err := Encode(v, p)
	if err != nil {
		return "", err
	}
	return Sum(data), nil
}

// Sum returns the lowercase hex SHA-256 of data.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// MustHash is like Hash but panics on error.
// Use only in tests or when v is known to encode under p.
func MustHash(v graph.Value, p Protocol) string {
	h, err := Hash(v, p)
	if err != nil {
		panic(err)
	}
	return h
}
