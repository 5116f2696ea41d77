// Package auth provides password hashing and PASETO token issuance.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// keyFileName holds the hex-encoded 256-bit symmetric key for PASETO v4
// tokens, stored under the data directory.
const keyFileName = "auth.key"

// LoadOrGenerateKey returns the server's token signing key, creating and
// persisting a fresh one on first run. The returned key is 32 raw bytes.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	if raw, err := os.ReadFile(keyPath); err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("auth key is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("auth key is %d bytes, want 32", len(key))
		}
		return key, nil
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	// Owner-only permissions; the key grants full token forgery.
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}
