package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/notestack/internal/app/models"
	"github.com/akshat/notestack/internal/pkg/logger"
)

// SubjectRepository handles database operations for subjects.
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// subjectScopePredicate narrows subjects to the caller's branch and
// semester. Admin scope sees everything.
func subjectScopePredicate(scope models.Scope) squirrel.Sqlizer {
	if scope.IsAdmin() {
		return nil
	}
	return squirrel.And{
		squirrel.Expr("LOWER(branch) = LOWER(?)", scope.Branch),
		squirrel.Eq{"semester": scope.Semester},
	}
}

// ListForScope returns the subjects visible to the scope, in insertion order.
func (r *SubjectRepository) ListForScope(ctx context.Context, scope models.Scope) ([]*models.Subject, error) {
	builder := squirrel.Select("id", "name", "branch", "semester").
		From("subjects").
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar)

	if pred := subjectScopePredicate(scope); pred != nil {
		builder = builder.Where(pred)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list subjects SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]*models.Subject, 0)
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Branch, &s.Semester); err != nil {
			return nil, fmt.Errorf("error scanning subject: %w", err)
		}
		subjects = append(subjects, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}

	return subjects, nil
}

// ExistsForScope reports whether the subject exists and is inside the
// caller's scope. Uploads are validated against this before any blob write.
func (r *SubjectRepository) ExistsForScope(ctx context.Context, subjectID int64, scope models.Scope) (bool, error) {
	builder := squirrel.Select("1").
		From("subjects").
		Where(squirrel.Eq{"id": subjectID}).
		PlaceholderFormat(squirrel.Dollar)

	if pred := subjectScopePredicate(scope); pred != nil {
		builder = builder.Where(pred)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building subject scope check SQL")
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		// Out of scope and nonexistent read the same to the caller.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking subject scope: %w", err)
	}
	return true, nil
}
