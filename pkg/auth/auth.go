// Package auth carries the credential value threaded through every
// storage call.
//
// The credential is an explicit parameter, never ambient state: the caller
// acquires it (typically from a key file), then invokes the transaction
// with it. When no valid credential is at hand the transaction fails
// before any storage call and the caller is expected to acquire one and
// retry the whole operation.
package auth

import (
	"strings"

	"github.com/foliopress/folio/pkg/errors"
	"github.com/spf13/afero"
)

var (
	// ErrEmptyKeyFile indicates the key file holds no credential
	ErrEmptyKeyFile = errors.New("key file holds no credential")

	// ErrKeyFile indicates the key file could not be read
	ErrKeyFile = errors.New("cannot read key file")
)

// Credential is an opaque bearer token for the storage backend
type Credential struct {
	token string
}

// NewCredential wraps a raw token
func NewCredential(token string) Credential {
	return Credential{token: token}
}

// IsZero tells whether no credential is held
func (c Credential) IsZero() bool {
	return c.token == ""
}

// Token yields the raw token for the storage backend
func (c Credential) Token() string {
	return c.token
}

// String redacts the token so credentials never leak into logs
func (c Credential) String() string {
	if c.IsZero() {
		return "credential(none)"
	}
	return "credential(redacted)"
}

// Load reads a credential from a key file: the first non-blank line,
// trimmed
func Load(fs afero.Fs, path string) (Credential, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return Credential{}, ErrKeyFile.Wrap(err)
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if token := strings.TrimSpace(line); token != "" {
			return NewCredential(token), nil
		}
	}
	return Credential{}, ErrEmptyKeyFile
}
