package model

import (
	"encoding/hex"
	"fmt"
	"regexp"

	blake2b "github.com/minio/blake2b-simd"
)

// Hash identifies an immutable object (blob, tree or commit) by the hex
// form of its blake2b-256 digest.
type Hash string

// NilHash is the zero hash. Inside a mutation it denotes deletion.
const NilHash = Hash("")

var hashRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// IsNil tells whether the hash designates no object
func (h Hash) IsNil() bool {
	return h == NilHash
}

func (h Hash) String() string {
	return string(h)
}

// Validate a non-nil hash
func (h Hash) Validate() error {
	if !hashRe.MatchString(string(h)) {
		return fmt.Errorf("invalid object hash: %q", string(h))
	}
	return nil
}

// HashBytes computes the object hash of a byte content
func HashBytes(b []byte) Hash {
	digest := blake2b.Sum256(b)
	return Hash(hex.EncodeToString(digest[:]))
}
