package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// HashKey derives a stable key from the JSON encoding of parts. Values that
// encode identically share a key.
func HashKey(parts ...any) (string, error) {
	signature, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	hash := sha256.Sum256(signature)
	return fmt.Sprintf("%x", hash), nil
}
