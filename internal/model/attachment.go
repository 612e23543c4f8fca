package model

import "time"

// Attachment is a single uploaded file bound to exactly one parent record.
// It is immutable once created; StorageKey is the only field needed to delete it.
type Attachment struct {
	URL          string    `json:"url"`
	StorageKey   string    `json:"storage_key"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MIMEType     string    `json:"mime_type"`
	SizeBytes    uint64    `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// StorageKeys returns the keys of the given attachments in order.
func StorageKeys(atts []Attachment) []string {
	keys := make([]string, 0, len(atts))
	for _, a := range atts {
		keys = append(keys, a.StorageKey)
	}
	return keys
}

// OrphanedObject is a stored object that outlived every deletion strategy.
// Rows are written only after a deletion pass reported the key as failed.
type OrphanedObject struct {
	StorageKey string    `json:"storage_key"`
	ParentID   string    `json:"parent_id"`
	Reason     string    `json:"reason"`
	Attempts   int       `json:"attempts"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
