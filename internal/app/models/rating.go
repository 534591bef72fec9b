package models

// Rating bounds accepted by the rate endpoint.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating defines the rating model based on the 'ratings' table.
// The (note_id, user_id) pair is unique: repeat votes by the same user
// overwrite the previous value instead of adding a row.
type Rating struct {
	ID     int64 `json:"ratingId" db:"id"`
	NoteID int64 `json:"noteId" db:"note_id"`
	UserID int64 `json:"userId" db:"user_id"`
	Rating int   `json:"rating" db:"rating"`
}

// ValidRating reports whether v is inside the accepted rating range.
func ValidRating(v int) bool {
	return v >= RatingMin && v <= RatingMax
}
