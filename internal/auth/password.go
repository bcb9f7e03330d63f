package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Default Argon2id parameters — OWASP 2025 recommendation.
const (
	defaultArgonTime    = 3         // iterations
	defaultArgonMemory  = 64 * 1024 // 64 MiB
	defaultArgonThreads = 1         // parallelism
	argonKeyLen         = 32        // output hash length
	argonSaltLen        = 16        // salt length
)

// Hasher hashes and verifies secrets using Argon2id. The same primitive
// is used for login passwords and for refresh-token-at-rest hashing.
//
// The zero value is not usable; construct with NewHasher or use
// DefaultHasher.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
}

// NewHasher creates a Hasher with an explicit cost factor. The cost
// scales the iteration count; memory and parallelism stay at the
// defaults. Cost values below 1 are clamped to the default.
func NewHasher(cost int) *Hasher {
	t := uint32(defaultArgonTime)
	if cost >= 1 {
		t = uint32(cost)
	}
	return &Hasher{
		time:    t,
		memory:  defaultArgonMemory,
		threads: defaultArgonThreads,
	}
}

// DefaultHasher returns a Hasher with the default cost parameters.
func DefaultHasher() *Hasher {
	return NewHasher(defaultArgonTime)
}

// Hash hashes a plaintext secret using Argon2id and returns it in PHC
// string format: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
//
// A fresh random salt is generated per call, so equal plaintexts
// produce different digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	digest := argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.threads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify checks a plaintext secret against an Argon2id PHC hash string.
// The parameters embedded in the digest are used, so hashes created
// with different cost factors remain verifiable.
func (h *Hasher) Verify(plaintext, encodedHash string) (bool, error) {
	salt, digest, params, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, params.time, params.memory, params.threads, uint32(len(digest))) //nolint:gosec // G115: hash length always fits uint32

	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// phcParts is the number of $-delimited parts in a PHC string.
const phcParts = 6

// decodePHC parses an Argon2id PHC string format into its components.
func decodePHC(encoded string) (salt, digest []byte, params argonParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != phcParts {
		return nil, nil, params, fmt.Errorf("invalid PHC hash format")
	}

	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return nil, nil, params, fmt.Errorf("parsing version: %w", err)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return nil, nil, params, fmt.Errorf("parsing parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}

	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding hash: %w", err)
	}

	return salt, digest, params, nil
}
