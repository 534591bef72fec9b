package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/notestack/internal/app/models"
	"github.com/akshat/notestack/internal/pkg/apperrors"
	"github.com/akshat/notestack/internal/pkg/logger"
)

// NoteDetails includes detailed information about a note, joining related
// tables and the live rating average.
type NoteDetails struct {
	ID            int64           `db:"id"`
	Title         string          `db:"title"`
	Description   *string         `db:"description"`
	FileURL       string          `db:"file_url"`
	FileType      string          `db:"file_type"`
	SubjectID     int64           `db:"subject_id"`
	SubjectName   string          `db:"subject_name"`
	UploadedBy    int64           `db:"uploaded_by"`
	UploaderName  string          `db:"uploader_name"`
	UploaderEmail string          `db:"uploader_email"`
	UploaderRole  models.RoleType `db:"uploader_role"`
	BatchYear     *int            `db:"batch_year"`
	Approved      bool            `db:"approved"`
	AvgRating     float64         `db:"avg_rating"`
	CreatedAt     time.Time       `db:"created_at"`
}

// NoteRepository handles database operations for notes.
type NoteRepository struct {
	db *pgxpool.Pool
}

// NewNoteRepository creates a new instance of NoteRepository.
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db}
}

// visibleNotesPredicate is the single WHERE clause for note visibility:
// approved notes whose branch and batch year match the viewer, plus any
// admin-authored note. Admin scope sees every approved note.
func visibleNotesPredicate(scope models.Scope) squirrel.Sqlizer {
	approved := squirrel.Eq{"n.approved": true}
	if scope.IsAdmin() {
		return approved
	}
	return squirrel.And{
		approved,
		squirrel.Or{
			squirrel.And{
				squirrel.Expr("LOWER(s.branch) = LOWER(?)", scope.Branch),
				squirrel.Eq{"n.batch_year": scope.Year},
			},
			squirrel.Eq{"u.role": models.RoleAdmin},
		},
	}
}

// selectNoteDetailsQuery joins notes with subject, uploader and the rating
// aggregate. Grouping by the three primary keys keeps the aggregate legal.
func (r *NoteRepository) selectNoteDetailsQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"n.id", "n.title", "n.description", "n.file_url", "n.file_type",
		"n.subject_id", "s.name AS subject_name",
		"n.uploaded_by", "u.name AS uploader_name", "u.email AS uploader_email", "u.role AS uploader_role",
		"n.batch_year", "n.approved",
		"COALESCE(AVG(r.rating), 0) AS avg_rating",
		"n.created_at",
	).From("notes n").
		Join("subjects s ON n.subject_id = s.id").
		Join("users u ON n.uploaded_by = u.id").
		LeftJoin("ratings r ON r.note_id = n.id").
		GroupBy("n.id", "s.id", "u.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanNoteDetails(row pgx.Row) (*NoteDetails, error) {
	var note NoteDetails
	err := row.Scan(
		&note.ID, &note.Title, &note.Description, &note.FileURL, &note.FileType,
		&note.SubjectID, &note.SubjectName,
		&note.UploadedBy, &note.UploaderName, &note.UploaderEmail, &note.UploaderRole,
		&note.BatchYear, &note.Approved,
		&note.AvgRating,
		&note.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("error scanning note details: %w", err)
	}
	return &note, nil
}

func (r *NoteRepository) queryNoteDetails(ctx context.Context, builder squirrel.SelectBuilder) ([]*NoteDetails, error) {
	sqlStr, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building note details SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*NoteDetails, 0)
	for rows.Next() {
		note, err := scanNoteDetails(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating note rows: %w", err)
	}

	return notes, nil
}

// Create inserts a new note row and returns its id.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) (int64, error) {
	sqlStr, args, err := squirrel.Insert("notes").
		Columns("title", "description", "file_url", "storage_key", "file_type",
			"subject_id", "uploaded_by", "batch_year", "approved").
		Values(note.Title, note.Description, note.FileURL, note.StorageKey, note.FileType,
			note.SubjectID, note.UploadedBy, note.BatchYear, note.Approved).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create note SQL")
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating note: %w", err)
	}

	return id, nil
}

// ListVisible returns the approved notes inside the viewer's scope, newest
// first, optionally narrowed to one subject.
func (r *NoteRepository) ListVisible(ctx context.Context, scope models.Scope, subjectID *int64) ([]*NoteDetails, error) {
	builder := r.selectNoteDetailsQuery().
		Where(visibleNotesPredicate(scope)).
		OrderBy("n.created_at DESC")

	if subjectID != nil {
		builder = builder.Where(squirrel.Eq{"n.subject_id": *subjectID})
	}

	return r.queryNoteDetails(ctx, builder)
}

// ListByUploader returns every note the user uploaded, any approval state,
// newest first.
func (r *NoteRepository) ListByUploader(ctx context.Context, userID int64) ([]*NoteDetails, error) {
	builder := r.selectNoteDetailsQuery().
		Where(squirrel.Eq{"n.uploaded_by": userID}).
		OrderBy("n.created_at DESC")
	return r.queryNoteDetails(ctx, builder)
}

// ListAll returns every note regardless of scope or approval. Admin view.
func (r *NoteRepository) ListAll(ctx context.Context) ([]*NoteDetails, error) {
	return r.queryNoteDetails(ctx, r.selectNoteDetailsQuery().OrderBy("n.created_at DESC"))
}

// GetByID retrieves a single note row.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	return r.getNoteWhere(ctx, squirrel.Eq{"id": id})
}

func (r *NoteRepository) getNoteWhere(ctx context.Context, pred squirrel.Sqlizer) (*models.Note, error) {
	sqlStr, args, err := squirrel.Select(
		"id", "title", "description", "file_url", "storage_key", "file_type",
		"subject_id", "uploaded_by", "batch_year", "approved", "created_at").
		From("notes").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get note SQL")
		return nil, err
	}

	note := &models.Note{}
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&note.ID, &note.Title, &note.Description, &note.FileURL, &note.StorageKey, &note.FileType,
		&note.SubjectID, &note.UploadedBy, &note.BatchYear, &note.Approved, &note.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("error getting note: %w", err)
	}

	return note, nil
}

// UpdateOwned mutates title and description of a note owned by uploaderID.
// Returns ErrNotOwner when no matching row exists; a foreign uploader and a
// missing note are indistinguishable on purpose.
func (r *NoteRepository) UpdateOwned(ctx context.Context, id, uploaderID int64, title string, description *string) error {
	sqlStr, args, err := squirrel.Update("notes").
		Set("title", title).
		Set("description", description).
		Where(squirrel.Eq{"id": id, "uploaded_by": uploaderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update note SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("error updating note: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotOwner
	}

	return nil
}

// Delete removes a note row.
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

// SetApproval flips the moderation flag. Updating a missing id is a no-op,
// matching the moderation endpoint's contract.
func (r *NoteRepository) SetApproval(ctx context.Context, id int64, approved bool) error {
	_, err := r.db.Exec(ctx, `UPDATE notes SET approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return fmt.Errorf("error setting approval: %w", err)
	}
	return nil
}
