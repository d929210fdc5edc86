package domain

import "time"

// Manual is the stored document backing a Model. StorageKey is normally a
// bare generated key; rows written before the key scheme may still hold a
// full filesystem path, which the document store resolves at read time.
type Manual struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"storage_key"`
	ModelName  string    `json:"model_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploaderID *int64    `json:"uploader_id,omitempty"`
	ModelID    *int64    `json:"model_id,omitempty"`
	Processed  bool      `json:"processed"`
}
