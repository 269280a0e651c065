// Package status declares error constants returned by
// implementations of the Store interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/storage and one
// of its implementations.
package status

import "github.com/foliopress/folio/pkg/errors"

var (
	// Sentinel errors returned by implementations of the interface defined by storage

	// ErrNotFound indicates that the target object or branch does not exist on storage
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates that you don't provide correct credentials to the backend
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that the backend forbids access to the target resource
	ErrForbidden = errors.New("forbidden")

	// ErrRefConflict indicates a conditional branch update found the pointer
	// moved away from its expected value. The pointer is left untouched.
	ErrRefConflict = errors.New("branch pointer conflict")

	// ErrNotSupported indicates that the backend does not support this call
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidResource indicates that the storage resource has an invalid name
	ErrInvalidResource = errors.New("invalid storage resource name")

	// ErrStorageAPI indicates any other storage API error
	ErrStorageAPI = errors.New("storage API error")
)
