// Package storage provides the interface to the git-style versioned
// object store backing folio.
//
// This package supports the following backends:
//   - memvcs (in-memory)
//   - badgervcs (badger)
//   - localvcs (local file system)
package storage
