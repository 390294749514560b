package models

import "time"

// FileRecord is the server-authoritative metadata for one uploaded document.
type FileRecord struct {
	ID          string    `json:"id" msgpack:"id"`
	Filename    string    `json:"filename" msgpack:"filename"`
	DisplayName string    `json:"display_name" msgpack:"display_name"`
	StoredPath  string    `json:"-" msgpack:"stored_path"`
	Size        int64     `json:"size" msgpack:"size"`
	UploadedAt  time.Time `json:"uploaded_at" msgpack:"uploaded_at"`
}

// Label returns the name shown to users: the display name when one was set,
// otherwise the original filename.
func (r *FileRecord) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Filename
}
