package dto

import "time"

// UploadNoteRequest is the multipart form payload accompanying a note file.
type UploadNoteRequest struct {
	Title       string  `form:"title" binding:"required"`
	Description *string `form:"description"`
	SubjectID   int64   `form:"subject_id" binding:"required"`
}

// UploadNoteResponse is returned after a successful upload.
type UploadNoteResponse struct {
	Message string `json:"message"`
	FileURL string `json:"file_url"`
}

// UpdateNoteRequest mutates title/description of an owned note. Approval
// state, subject and file are immutable through this path.
type UpdateNoteRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// RateNoteRequest is the rating payload.
type RateNoteRequest struct {
	NoteID int64 `json:"note_id" binding:"required"`
	Rating int   `json:"rating" binding:"required"`
}

// RateNoteResponse carries the freshly recomputed average.
type RateNoteResponse struct {
	Message       string  `json:"message"`
	AverageRating float64 `json:"average_rating"`
}

// ApproveNoteRequest sets the moderation flag.
type ApproveNoteRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// SubjectResponse is a browsable subject entry.
type SubjectResponse struct {
	SubjectID   int64  `json:"subject_id"`
	SubjectName string `json:"subject_name"`
}

// NoteResponse is a note row enriched with its joins for display.
type NoteResponse struct {
	NoteID        int64     `json:"note_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	FileURL       string    `json:"file_url"`
	FileType      string    `json:"file_type"`
	SubjectID     int64     `json:"subject_id"`
	SubjectName   string    `json:"subject_name"`
	UploaderName  string    `json:"uploader_name"`
	UploaderEmail string    `json:"uploader_email,omitempty"`
	BatchYear     *int      `json:"batch_year,omitempty"`
	Approved      bool      `json:"approved"`
	AvgRating     float64   `json:"avg_rating"`
	CreatedAt     time.Time `json:"created_at"`
}
