package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/notestack/internal/app/models/dto"
)

// RatingRepository handles database operations for ratings.
type RatingRepository struct {
	db *pgxpool.Pool
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{db: db}
}

// upsertRatingSQL relies on the unique (note_id, user_id) constraint so a
// repeat vote by the same user overwrites the previous value instead of
// inserting a second row.
const upsertRatingSQL = `
	INSERT INTO ratings (note_id, user_id, rating)
	VALUES ($1, $2, $3)
	ON CONFLICT (note_id, user_id) DO UPDATE SET rating = EXCLUDED.rating`

// Upsert records a vote, one row per (note, user) pair.
func (r *RatingRepository) Upsert(ctx context.Context, noteID, userID int64, rating int) error {
	_, err := r.db.Exec(ctx, upsertRatingSQL, noteID, userID, rating)
	if err != nil {
		return fmt.Errorf("error saving rating: %w", err)
	}
	return nil
}

// AverageForNote recomputes the live average for a note; 0 when no votes
// exist.
func (r *RatingRepository) AverageForNote(ctx context.Context, noteID int64) (float64, error) {
	var avg float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0) FROM ratings WHERE note_id = $1`,
		noteID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("error computing average rating: %w", err)
	}
	return avg, nil
}

// ListAll returns every rating joined with its note and voter, newest
// first. Admin view.
func (r *RatingRepository) ListAll(ctx context.Context) ([]*dto.AdminRatingRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.rating, n.title, u.name, u.email
		FROM ratings r
		JOIN notes n ON n.id = r.note_id
		JOIN users u ON u.id = r.user_id
		ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]*dto.AdminRatingRow, 0)
	for rows.Next() {
		row := &dto.AdminRatingRow{}
		if err := rows.Scan(&row.RatingID, &row.Rating, &row.NoteTitle, &row.UserName, &row.UserEmail); err != nil {
			return nil, fmt.Errorf("error scanning rating row: %w", err)
		}
		ratings = append(ratings, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating rows: %w", err)
	}

	return ratings, nil
}
