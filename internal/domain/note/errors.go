package note

import "errors"

// ErrPersistence indicates the note collection could not be read from or
// written to durable storage. It is logged, never returned to intents: the
// in-memory collection stays authoritative for the session.
var ErrPersistence = errors.New("note persistence failed")
