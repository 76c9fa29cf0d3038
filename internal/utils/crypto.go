package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"moviestore/internal/models"
)

// HashConfig holds the Argon2id parameters used for passwords and security answers
type HashConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultHashConfig returns the default Argon2id parameters
func DefaultHashConfig() *HashConfig {
	return &HashConfig{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// HashPassword hashes a password using Argon2id
func HashPassword(password string) (string, error) {
	return hashSecret(password, DefaultHashConfig())
}

// VerifyPassword verifies a password against a hash
func VerifyPassword(password, hash string) (bool, error) {
	return verifySecret(password, hash)
}

// HashSecurityAnswer hashes a recovery answer after trimming and case folding it,
// so " Blue " and "blue" produce verifiable hashes of the same secret.
func HashSecurityAnswer(answer string) (string, error) {
	normalized := models.NormalizeSecurityAnswer(answer)
	if normalized == "" {
		return "", fmt.Errorf("security answer is empty")
	}
	return hashSecret(normalized, DefaultHashConfig())
}

// VerifySecurityAnswer checks a submitted recovery answer against the stored hash
func VerifySecurityAnswer(answer, hash string) (bool, error) {
	return verifySecret(models.NormalizeSecurityAnswer(answer), hash)
}

func hashSecret(secret string, config *HashConfig) (string, error) {
	salt := make([]byte, config.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, config.Iterations, config.Memory, config.Parallelism, config.KeyLength)

	// Format: $argon2id$v=19$m=65536,t=3,p=2$salt$hash
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, config.Memory, config.Iterations, config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func verifySecret(secret, hash string) (bool, error) {
	config, salt, expected, err := parseHash(hash)
	if err != nil {
		return false, fmt.Errorf("failed to parse hash: %w", err)
	}

	provided := argon2.IDKey([]byte(secret), salt, config.Iterations, config.Memory, config.Parallelism, config.KeyLength)

	return subtle.ConstantTimeCompare(expected, provided) == 1, nil
}

// parseHash parses an encoded Argon2id hash string
func parseHash(hash string) (*HashConfig, []byte, []byte, error) {
	// ["", "argon2id", "v=19", "m=memory,t=iterations,p=parallelism", "salt", "hash"]
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, fmt.Errorf("invalid hash format: expected 6 parts, got %d", len(parts))
	}

	if parts[1] != "argon2id" || parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return nil, nil, nil, fmt.Errorf("invalid hash format: incorrect prefix")
	}

	var memory, iterations uint32
	var parallelism uint8
	n, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil || n != 3 {
		return nil, nil, nil, fmt.Errorf("invalid hash format: failed to parse parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode hash: %w", err)
	}

	config := &HashConfig{
		Memory:      memory,
		Iterations:  iterations,
		Parallelism: parallelism,
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(key)),
	}

	return config, salt, key, nil
}
