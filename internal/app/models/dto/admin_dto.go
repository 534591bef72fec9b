package dto

import "time"

// AdminUserRow is the unfiltered user projection for the admin table.
type AdminUserRow struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Branch    string    `json:"branch"`
	Year      int       `json:"year"`
	Semester  int       `json:"semester"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminRatingRow is a rating joined with its note and voter.
type AdminRatingRow struct {
	RatingID  int64  `json:"rating_id"`
	Rating    int    `json:"rating"`
	NoteTitle string `json:"note_title"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
