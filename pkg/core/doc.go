// Package core implements the batch deletion transaction: resolving the
// artifacts of every selected document, assembling one deletion set,
// committing it as a child of the current branch head, and advancing the
// branch pointer with compare-and-swap semantics.
//
// Everything before the pointer update is pure computation over immutable
// inputs; the conditional update alone decides global visibility.
package core
