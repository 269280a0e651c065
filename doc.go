/*
Package folio manages markdown documents kept in a git-style
content-addressed tree/commit store.

A document is identified by a slug and owns a content entry (one or two
canonical extensions) plus a media directory. The primary operation is the
atomic batch deletion transaction: one commit removing every artifact of
every selected document, made visible only by a single conditional update
of the branch pointer.
*/
package folio
