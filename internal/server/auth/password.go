package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argon2Prefix = "$argon2id$"

	// Hashes from the previous deployment were bcrypt with cost 10.
	maxBcryptCost = 14
)

// Argon2Params controls the argon2id cost. MemoryKiB is in KiB as
// argon2.IDKey expects.
type Argon2Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params is the production baseline: 64 MiB, 3 passes.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryKiB:   64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher hashes and verifies passwords. The zero value is not usable;
// construct it with NewHasher.
type Hasher struct {
	params Argon2Params
}

// NewHasher returns a Hasher using p for new hashes and as the upper bound
// (with 2x headroom) for hashes it agrees to verify.
func NewHasher(p Argon2Params) *Hasher {
	return &Hasher{params: p}
}

// Hash derives an argon2id key from plaintext with a fresh random salt and
// returns it encoded as
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
//
// An empty plaintext is hashed like any other; policy checks live elsewhere.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		h.params.Iterations,
		h.params.MemoryKiB,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches stored. Malformed, unsupported or
// oversized hashes simply do not match.
func (h *Hasher) Verify(plaintext, stored string) bool {
	if isBcrypt(stored) {
		return h.verifyBcrypt(plaintext, stored)
	}

	params, salt, expected, err := decodeArgon2(stored)
	if err != nil {
		return false
	}
	if !withinBounds(params, h.params) {
		return false
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		params.Iterations,
		params.MemoryKiB,
		params.Parallelism,
		params.KeyLength,
	)

	return subtle.ConstantTimeCompare(key, expected) == 1
}

// NeedsRehash reports whether stored should be replaced by a fresh Hash on
// the next successful login: bcrypt hashes and argon2id hashes weaker than
// the current parameters.
func (h *Hasher) NeedsRehash(stored string) bool {
	if isBcrypt(stored) {
		return true
	}
	params, _, _, err := decodeArgon2(stored)
	if err != nil {
		return true
	}
	return params.MemoryKiB < h.params.MemoryKiB ||
		params.Iterations < h.params.Iterations ||
		params.KeyLength < h.params.KeyLength
}

func (h *Hasher) verifyBcrypt(plaintext, stored string) bool {
	cost, err := bcrypt.Cost([]byte(stored))
	if err != nil || cost > maxBcryptCost {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// withinBounds refuses hashes whose cost would let a planted hash string
// exhaust memory or CPU. Older, cheaper hashes are still accepted.
func withinBounds(got, limits Argon2Params) bool {
	if got.MemoryKiB > limits.MemoryKiB*2 {
		return false
	}
	if got.Iterations > limits.Iterations*2 {
		return false
	}
	if uint32(got.Parallelism) > uint32(limits.Parallelism)*2 {
		return false
	}
	if got.SaltLength < 8 || got.SaltLength > 64 {
		return false
	}
	if got.KeyLength < 16 || got.KeyLength > 128 {
		return false
	}
	return true
}

var errBadHash = errors.New("invalid password hash")

func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	if !strings.HasPrefix(encoded, argon2Prefix) {
		return Argon2Params{}, nil, nil, errBadHash
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return Argon2Params{}, nil, nil, errBadHash
	}

	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return Argon2Params{}, nil, nil, errBadHash
	}

	var mem, iter, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return Argon2Params{}, nil, nil, errBadHash
	}
	if mem == 0 || iter == 0 || par == 0 || par > 255 {
		return Argon2Params{}, nil, nil, errBadHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, errBadHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2Params{}, nil, nil, errBadHash
	}

	params := Argon2Params{
		MemoryKiB:   mem,
		Iterations:  iter,
		Parallelism: uint8(par),
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(key)),
	}
	return params, salt, key, nil
}
