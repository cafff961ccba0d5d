package token

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidHashInput indicates mandatory hashing parameters were missing.
// This is a programming or configuration error, never a user error.
var ErrInvalidHashInput = errors.New("hash algorithm and salt are required")

// hashAlgorithms is the static registry of supported keyed-hash algorithms.
var hashAlgorithms = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Hash derives a salted, iterated keyed hash of secret and returns it in the
// self-describing format "algorithm$salt$iterations$digest". Round one hashes
// the raw secret; every later round hashes the hex digest of the previous
// round. Iteration counts below one are treated as one.
//
// Because the output embeds its own parameters, the algorithm and iteration
// policy can change for newly created hashes without invalidating anything
// already stored.
func Hash(secret, salt, algorithm string, iterations int) (string, error) {
	if algorithm == "" || salt == "" {
		return "", errors.Wrap(ErrInvalidHashInput, "[token.Hash]")
	}
	newHash, ok := hashAlgorithms[algorithm]
	if !ok {
		return "", errors.Wrapf(ErrInvalidHashInput, "[token.Hash] unsupported algorithm %q", algorithm)
	}
	if iterations < 1 {
		iterations = 1
	}

	digest := secret
	for i := 0; i < iterations; i++ {
		mac := hmac.New(newHash, []byte(salt))
		mac.Write([]byte(digest))
		digest = hex.EncodeToString(mac.Sum(nil))
	}

	return fmt.Sprintf("%s$%s$%d$%s", algorithm, salt, iterations, digest), nil
}

// Verify re-derives the hash of secret using the parameters embedded in
// stored and compares the results.
func Verify(secret, stored string) (bool, error) {
	fields := strings.Split(stored, "$")
	if len(fields) != 4 {
		return false, errors.Errorf("[token.Verify] stored hash has %d fields, want 4", len(fields))
	}
	iterations, err := strconv.Atoi(fields[2])
	if err != nil {
		return false, errors.Wrap(err, "[token.Verify] iterations field")
	}
	derived, err := Hash(secret, fields[1], fields[0], iterations)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(derived), []byte(stored)), nil
}
