package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/akshat/notestack/internal/app/models"
	"github.com/akshat/notestack/internal/app/models/dto"
	"github.com/akshat/notestack/internal/app/repositories"
)

// AdminService defines the interface for admin read views
type AdminService interface {
	ListUsers(ctx context.Context) ([]dto.AdminUserRow, error)
	ListNotes(ctx context.Context) ([]dto.NoteResponse, error)
	ListRatings(ctx context.Context) ([]*dto.AdminRatingRow, error)
}

// adminUserStore is the slice of the user repository the admin service needs.
type adminUserStore interface {
	ListAll(ctx context.Context) ([]*models.User, error)
}

// adminNoteStore is the slice of the note repository the admin service needs.
type adminNoteStore interface {
	ListAll(ctx context.Context) ([]*repositories.NoteDetails, error)
}

// adminRatingStore is the slice of the rating repository the admin service needs.
type adminRatingStore interface {
	ListAll(ctx context.Context) ([]*dto.AdminRatingRow, error)
}

// adminServiceImpl implements AdminService
type adminServiceImpl struct {
	users   adminUserStore
	notes   adminNoteStore
	ratings adminRatingStore
	logger  zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(users adminUserStore, notes adminNoteStore, ratings adminRatingStore, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{
		users:   users,
		notes:   notes,
		ratings: ratings,
		logger:  logger,
	}
}

// ListUsers returns every account, newest first.
func (s *adminServiceImpl) ListUsers(ctx context.Context) ([]dto.AdminUserRow, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AdminUserRow, 0, len(users))
	for _, u := range users {
		out = append(out, dto.AdminUserRow{
			UserID:    u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Branch:    u.Branch,
			Year:      u.Year,
			Semester:  u.Semester,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

// ListNotes returns every note regardless of approval, with uploader emails
// for moderation.
func (s *adminServiceImpl) ListNotes(ctx context.Context) ([]dto.NoteResponse, error) {
	notes, err := s.notes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return newNoteResponses(notes, true), nil
}

// ListRatings returns every rating joined with its note and voter.
func (s *adminServiceImpl) ListRatings(ctx context.Context) ([]*dto.AdminRatingRow, error) {
	return s.ratings.ListAll(ctx)
}
