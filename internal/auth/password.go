// Package auth provides credential hashing, bearer token signing and the
// request-scoped caller identity.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (OWASP 2024 recommended minimum).
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

// Bounds accepted when verifying a stored hash. A tampered record must not be
// able to make verification allocate unbounded memory or spin for minutes.
const (
	maxVerifyMemory  = 1024 * 1024 // 1 GB
	maxVerifyTime    = 16
	minVerifyKeyLen  = 16
	maxVerifyKeyLen  = 128
	minVerifySaltLen = 8
)

// HashPassword creates an Argon2id hash of the given password.
// The result is a PHC string carrying its own salt and parameters:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func HashPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword reports whether password matches the encoded hash.
// Any malformed or unsupported hash yields false; it never returns an error.
func VerifyPassword(password, encodedHash string) bool {
	params, salt, expected, ok := decodeHash(encodedHash)
	if !ok {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		params.time,
		params.memory,
		params.threads,
		uint32(len(expected)),
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

type hashParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decodeHash(encodedHash string) (hashParams, []byte, []byte, bool) {
	var p hashParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, false
	}
	// Sscanf stops at the last verb; anything after it must not be ignored.
	if parts[2] != fmt.Sprintf("v=%d", version) {
		return p, nil, nil, false
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, false
	}
	if parts[3] != fmt.Sprintf("m=%d,t=%d,p=%d", p.memory, p.time, p.threads) {
		return p, nil, nil, false
	}
	if p.memory == 0 || p.memory > maxVerifyMemory || p.time == 0 || p.time > maxVerifyTime || p.threads == 0 {
		return p, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < minVerifySaltLen {
		return p, nil, nil, false
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) < minVerifyKeyLen || len(hash) > maxVerifyKeyLen {
		return p, nil, nil, false
	}

	return p, salt, hash, true
}
