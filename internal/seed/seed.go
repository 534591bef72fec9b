package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appModels "github.com/akshat/notestack/internal/app/models"
	appRepos "github.com/akshat/notestack/internal/app/repositories"
	"github.com/akshat/notestack/internal/db"
	"github.com/akshat/notestack/internal/pkg/apperrors"
	"github.com/akshat/notestack/internal/pkg/auth"
)

const (
	defaultAdminEmail    = "admin@notestack.app"
	defaultAdminPassword = "Admin123!"
)

var defaultSubjects = []appModels.Subject{
	{Name: "Engineering Mathematics I", Branch: "CSE", Semester: 1},
	{Name: "Programming Fundamentals", Branch: "CSE", Semester: 1},
	{Name: "Data Structures", Branch: "CSE", Semester: 3},
	{Name: "Database Management Systems", Branch: "CSE", Semester: 3},
	{Name: "Operating Systems", Branch: "CSE", Semester: 5},
	{Name: "Computer Networks", Branch: "CSE", Semester: 5},
	{Name: "Machine Learning", Branch: "CSE", Semester: 7},
	{Name: "Signals and Systems", Branch: "ECE", Semester: 3},
	{Name: "Digital Electronics", Branch: "ECE", Semester: 3},
	{Name: "Communication Systems", Branch: "ECE", Semester: 5},
	{Name: "Thermodynamics", Branch: "ME", Semester: 3},
	{Name: "Fluid Mechanics", Branch: "ME", Semester: 5},
}

// CreateDefaultData inserts the default subject catalog and the bootstrap
// admin account if they don't exist. The catalog goes in as a single
// transaction so a half-seeded subject list never survives a failure.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(database.Pool)

	lgr.Info().Msg("Checking/Creating default data (subjects/admin)...")
	var finalErr error

	err := database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, subject := range defaultSubjects {
			_, err := tx.Exec(ctx,
				`INSERT INTO subjects (name, branch, semester)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (name, branch, semester) DO NOTHING`,
				subject.Name, subject.Branch, subject.Semester,
			)
			if err != nil {
				return fmt.Errorf("error creating default subject %s: %w", subject.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding subject catalog")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Create Default Admin User --- //
	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return errors.Join(finalErr, err)
	}
	if exists {
		return finalErr
	}

	lgr.Info().Msg("Creating default admin user...")
	hashedPassword, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.User{
		Name:         "Administrator",
		Email:        defaultAdminEmail,
		PasswordHash: hashedPassword,
		College:      "NoteStack",
		Branch:       "CSE",
		Year:         4,
		Semester:     appModels.SemesterForYear(4),
		Role:         appModels.RoleAdmin,
	}
	if _, err := userRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
