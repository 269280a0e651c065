// Package model describes the data model of folio: object hashes, commit
// and tree descriptors, branch references, deletion mutations, and the
// canonical artifact paths owned by a document.
package model
