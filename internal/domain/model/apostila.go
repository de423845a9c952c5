package model

import "time"

// Apostila is the stored record of one generated document artifact.
type Apostila struct {
	ID             string
	UserID         string
	Title          string
	Theme          string
	TechnicalArea  string
	TargetAudience string
	NumChapters    int
	StorageURL     string
	BlobName       string
	FileSizeBytes  int64
	CreatedAt      time.Time
}
