package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashBytes creates a SHA256 digest of the input, hex encoded.
func HashBytes(input []byte) string {
	hash := sha256.Sum256(input)
	return hex.EncodeToString(hash[:])
}

// HashString creates a SHA256 digest of the input string, hex encoded.
func HashString(input string) string {
	return HashBytes([]byte(input))
}

// DecodeHash32 decodes a hex-encoded 32-byte hash.
func DecodeHash32(hexHash string) ([]byte, error) {
	raw, err := hex.DecodeString(hexHash)
	if err != nil {
		return nil, fmt.Errorf("invalid hash encoding: %v", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(raw))
	}
	return raw, nil
}

// IsHash32 reports whether the string is a hex-encoded 32-byte hash.
func IsHash32(hexHash string) bool {
	_, err := DecodeHash32(hexHash)
	return err == nil
}
