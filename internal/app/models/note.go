package models

import (
	"time"
)

// FileTypePDF is the only file kind accepted for notes.
const FileTypePDF = "pdf"

// Note defines the note model based on the 'notes' table.
// BatchYear is the uploader's academic year at upload time; it is NULL for
// admin uploads, which are visible to every scope.
type Note struct {
	ID          int64     `json:"noteId" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	FileURL     string    `json:"fileUrl" db:"file_url"`
	StorageKey  string    `json:"-" db:"storage_key"`
	FileType    string    `json:"fileType" db:"file_type"`
	SubjectID   int64     `json:"subjectId" db:"subject_id"`
	UploadedBy  int64     `json:"uploadedBy" db:"uploaded_by"`
	BatchYear   *int      `json:"batchYear,omitempty" db:"batch_year"`
	Approved    bool      `json:"approved" db:"approved"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
