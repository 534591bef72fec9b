package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	SubjectRepository *SubjectRepository
	NoteRepository    *NoteRepository
	RatingRepository  *RatingRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		SubjectRepository: NewSubjectRepository(db),
		NoteRepository:    NewNoteRepository(db),
		RatingRepository:  NewRatingRepository(db),
	}
}
