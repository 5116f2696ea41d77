package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Hashing parameters for new passwords. Verification reads the parameters
// back out of the stored hash, so these can be raised later without
// invalidating existing credentials.
const (
	hashMemoryKiB   = 64 * 1024
	hashIterations  = 3
	hashParallelism = 4
	hashSaltBytes   = 16
	hashKeyBytes    = 32

	// Bounds the work a single login attempt can demand.
	maxPasswordLength = 1024

	hashPrefix = "$argon2id$"
)

// hashParams carries the cost settings parsed from a stored hash.
type hashParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

// HashPassword derives an Argon2id hash with a fresh salt and returns it in
// the standard encoded form.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > maxPasswordLength {
		return "", errors.New("password exceeds maximum length")
	}

	salt := make([]byte, hashSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, hashIterations, hashMemoryKiB, hashParallelism, hashKeyBytes)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		hashPrefix,
		argon2.Version,
		hashMemoryKiB, hashIterations, hashParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// IsHashed reports whether the value is already an encoded Argon2id hash.
// Services use this as a guard so a record whose password field already holds
// a hash is never hashed a second time on save.
func IsHashed(value string) bool {
	return strings.HasPrefix(value, hashPrefix)
}

// VerifyPassword checks a candidate password against a stored hash. A
// malformed hash verifies as false rather than erroring, so callers cannot
// distinguish a bad password from a corrupt record.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if len(password) > maxPasswordLength {
		return false, nil
	}

	salt, key, params, err := parseHash(encodedHash)
	if err != nil {
		return false, nil
	}

	candidate := argon2.IDKey([]byte(password), salt, params.iterations, params.memory, params.parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// parseHash splits an encoded hash into salt, derived key, and cost settings.
func parseHash(encoded string) (salt, key []byte, params hashParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, params, errors.New("malformed hash")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, fmt.Errorf("bad version field: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &params.parallelism); err != nil {
		return nil, nil, params, fmt.Errorf("bad cost fields: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, params, fmt.Errorf("bad salt encoding: %w", err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, params, fmt.Errorf("bad key encoding: %w", err)
	}

	return salt, key, params, nil
}
