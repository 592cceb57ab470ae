package idgen

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"
	"time"
)

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// Uses only alphanumeric characters (0-9, a-z) - no dashes or special characters.
func GenerateSecureID(prefix string, length int) (string, error) {
	// Use larger byte array for better entropy
	bytes := make([]byte, length*2)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// Generate alphanumeric string (numbers and lowercase letters only)
	const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[bytes[i]%36] // 36 = len(charset)
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// MustGenerateSecureID is GenerateSecureID with a fallback when the system
// entropy source fails. Callers that cannot propagate an error use it.
func MustGenerateSecureID(prefix string, length int) string {
	id, err := GenerateSecureID(prefix, length)
	if err != nil {
		return fallbackID(prefix)
	}
	return id
}

var fallbackCounter atomic.Uint64

// fallbackID keeps ids unique without entropy: a nanosecond timestamp plus
// a process-wide counter.
func fallbackID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), fallbackCounter.Add(1))
}
