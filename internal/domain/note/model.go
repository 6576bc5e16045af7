package note

// SlotKey is the durable storage slot holding the note collection.
const SlotKey = "chunking_notes"

// Note is a free-text note. ID is the creation time in Unix milliseconds.
type Note struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Draft is the note editor buffer.
type Draft struct {
	// EditingID is the note being edited, or zero for a new note.
	EditingID int64  `json:"editing_id,omitempty"`
	Text      string `json:"text"`
}
