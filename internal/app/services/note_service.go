package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akshat/notestack/internal/app/models"
	"github.com/akshat/notestack/internal/app/models/dto"
	"github.com/akshat/notestack/internal/app/repositories"
	"github.com/akshat/notestack/internal/pkg/apperrors"
	"github.com/akshat/notestack/internal/pkg/dberrors"
	"github.com/akshat/notestack/internal/pkg/filestorage"
)

var pdfMagic = []byte("%PDF-")

// NoteService defines the interface for note operations
type NoteService interface {
	ListSubjects(ctx context.Context, user *models.User) ([]dto.SubjectResponse, error)
	Upload(ctx context.Context, user *models.User, req *dto.UploadNoteRequest, file *multipart.FileHeader) (*dto.UploadNoteResponse, error)
	List(ctx context.Context, user *models.User, subjectID *int64) ([]dto.NoteResponse, error)
	ListMine(ctx context.Context, user *models.User) ([]dto.NoteResponse, error)
	Update(ctx context.Context, user *models.User, noteID int64, req *dto.UpdateNoteRequest) error
	Delete(ctx context.Context, user *models.User, noteID int64) error
	Rate(ctx context.Context, user *models.User, req *dto.RateNoteRequest) (float64, error)
	Approve(ctx context.Context, noteID int64, approved bool) error
}

// subjectStore is the slice of the subject repository the note service needs.
type subjectStore interface {
	ListForScope(ctx context.Context, scope models.Scope) ([]*models.Subject, error)
	ExistsForScope(ctx context.Context, subjectID int64, scope models.Scope) (bool, error)
}

// noteStore is the slice of the note repository the note service needs.
type noteStore interface {
	Create(ctx context.Context, note *models.Note) (int64, error)
	ListVisible(ctx context.Context, scope models.Scope, subjectID *int64) ([]*repositories.NoteDetails, error)
	ListByUploader(ctx context.Context, userID int64) ([]*repositories.NoteDetails, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	UpdateOwned(ctx context.Context, id, uploaderID int64, title string, description *string) error
	Delete(ctx context.Context, id int64) error
	SetApproval(ctx context.Context, id int64, approved bool) error
}

// ratingStore is the slice of the rating repository the note service needs.
type ratingStore interface {
	Upsert(ctx context.Context, noteID, userID int64, rating int) error
	AverageForNote(ctx context.Context, noteID int64) (float64, error)
}

// noteServiceImpl implements NoteService
type noteServiceImpl struct {
	subjects    subjectStore
	notes       noteStore
	ratings     ratingStore
	storage     filestorage.Storage
	maxFileSize int64
	logger      zerolog.Logger
}

// NewNoteService creates a new NoteService
func NewNoteService(
	subjects subjectStore,
	notes noteStore,
	ratings ratingStore,
	storage filestorage.Storage,
	maxFileSize int64,
	logger zerolog.Logger,
) NoteService {
	return &noteServiceImpl{
		subjects:    subjects,
		notes:       notes,
		ratings:     ratings,
		storage:     storage,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// ListSubjects returns the subjects visible to the user's scope.
func (s *noteServiceImpl) ListSubjects(ctx context.Context, user *models.User) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.ListForScope(ctx, user.Scope())
	if err != nil {
		return nil, err
	}

	out := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, dto.SubjectResponse{
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
		})
	}
	return out, nil
}

// Upload validates and stores a PDF, then records its metadata. Student
// uploads land unapproved and pinned to the student's batch year; admin
// uploads are approved immediately with no batch year so every scope can
// see them.
func (s *noteServiceImpl) Upload(ctx context.Context, user *models.User, req *dto.UploadNoteRequest, file *multipart.FileHeader) (*dto.UploadNoteResponse, error) {
	if file == nil {
		return nil, apperrors.ErrFileRequired
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if err := validatePDF(file); err != nil {
		return nil, err
	}

	ok, err := s.subjects.ExistsForScope(ctx, req.SubjectID, user.Scope())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrInvalidSubject
	}

	url, key, err := s.storage.Save(ctx, file)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		FileURL:     url,
		StorageKey:  key,
		FileType:    models.FileTypePDF,
		SubjectID:   req.SubjectID,
		UploadedBy:  user.ID,
		Approved:    user.Scope().IsAdmin(),
	}
	if !user.Scope().IsAdmin() {
		year := user.Year
		note.BatchYear = &year
	}

	if _, err := s.notes.Create(ctx, note); err != nil {
		// The blob exists but the row does not; remove the orphan so the
		// bucket does not accumulate unreferenced files.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Error().Err(delErr).Str("key", key).Msg("Failed to remove orphaned file after insert failure")
		}
		return nil, err
	}

	message := "Uploaded successfully (awaiting approval)"
	if user.Scope().IsAdmin() {
		message = "Admin note uploaded & auto-approved"
	}

	s.logger.Info().Int64("userId", user.ID).Int64("subjectId", req.SubjectID).Str("key", key).Msg("Note uploaded")
	return &dto.UploadNoteResponse{
		Message: message,
		FileURL: url,
	}, nil
}

// List returns the notes visible to the user, optionally filtered by subject.
func (s *noteServiceImpl) List(ctx context.Context, user *models.User, subjectID *int64) ([]dto.NoteResponse, error) {
	notes, err := s.notes.ListVisible(ctx, user.Scope(), subjectID)
	if err != nil {
		return nil, err
	}
	return newNoteResponses(notes, false), nil
}

// ListMine returns every note the user uploaded, approved or not.
func (s *noteServiceImpl) ListMine(ctx context.Context, user *models.User) ([]dto.NoteResponse, error) {
	notes, err := s.notes.ListByUploader(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return newNoteResponses(notes, false), nil
}

// Update edits the title and description of a note the user owns.
func (s *noteServiceImpl) Update(ctx context.Context, user *models.User, noteID int64, req *dto.UpdateNoteRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("title is required")
	}
	return s.notes.UpdateOwned(ctx, noteID, user.ID, strings.TrimSpace(req.Title), req.Description)
}

// Delete removes a note row and then its blob. Students can only delete
// their own notes; admins can delete any.
func (s *noteServiceImpl) Delete(ctx context.Context, user *models.User, noteID int64) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if !user.Scope().IsAdmin() && note.UploadedBy != user.ID {
		return apperrors.ErrNotOwner
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		return err
	}

	// Blob removal is best effort; the row is already gone.
	if err := s.storage.Delete(ctx, note.StorageKey); err != nil {
		s.logger.Warn().Err(err).Str("key", note.StorageKey).Msg("Failed to delete note file")
	}
	return nil
}

// Rate records or replaces the user's rating and returns the fresh average.
func (s *noteServiceImpl) Rate(ctx context.Context, user *models.User, req *dto.RateNoteRequest) (float64, error) {
	if !models.ValidRating(req.Rating) {
		return 0, apperrors.ErrInvalidRating
	}

	if err := s.ratings.Upsert(ctx, req.NoteID, user.ID, req.Rating); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrNoteNotFound
		}
		return 0, err
	}

	return s.ratings.AverageForNote(ctx, req.NoteID)
}

// Approve flips the moderation flag on a note.
func (s *noteServiceImpl) Approve(ctx context.Context, noteID int64, approved bool) error {
	return s.notes.SetApproval(ctx, noteID, approved)
}

// validatePDF rejects anything that does not look like a PDF on all three
// counts: extension, declared type and leading magic bytes.
func validatePDF(file *multipart.FileHeader) error {
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return apperrors.ErrUnsupportedFileType
	}

	if file.Header.Get("Content-Type") != "application/pdf" {
		return apperrors.ErrUnsupportedFileType
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return apperrors.ErrUnsupportedFileType
	}
	if !bytes.Equal(head, pdfMagic) {
		return apperrors.ErrUnsupportedFileType
	}
	return nil
}

// newNoteResponses maps joined note rows to API responses. Uploader emails
// are only exposed on admin read views.
func newNoteResponses(notes []*repositories.NoteDetails, includeEmail bool) []dto.NoteResponse {
	out := make([]dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp := dto.NoteResponse{
			NoteID:       n.ID,
			Title:        n.Title,
			Description:  n.Description,
			FileURL:      n.FileURL,
			FileType:     n.FileType,
			SubjectID:    n.SubjectID,
			SubjectName:  n.SubjectName,
			UploaderName: n.UploaderName,
			BatchYear:    n.BatchYear,
			Approved:     n.Approved,
			AvgRating:    n.AvgRating,
			CreatedAt:    n.CreatedAt,
		}
		if includeEmail {
			resp.UploaderEmail = n.UploaderEmail
		}
		out = append(out, resp)
	}
	return out
}
