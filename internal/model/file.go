package model

import "time"

// File is the metadata record of one uploaded text file.
// Records are created once on upload and never modified afterwards.
type File struct {
	ID          string    `json:"fileId"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storagePath"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}
