package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshat/notestack/internal/app/models"
	"github.com/akshat/notestack/internal/app/models/dto"
	"github.com/akshat/notestack/internal/app/repositories"
	"github.com/akshat/notestack/internal/pkg/apperrors"
)

type fakeSubjectStore struct {
	subjects []*models.Subject
	exists   bool
}

func (f *fakeSubjectStore) ListForScope(_ context.Context, _ models.Scope) ([]*models.Subject, error) {
	return f.subjects, nil
}

func (f *fakeSubjectStore) ExistsForScope(_ context.Context, _ int64, _ models.Scope) (bool, error) {
	return f.exists, nil
}

type fakeNoteStore struct {
	createErr error
	created   *models.Note
	byID      *models.Note
	byIDErr   error
	deleted   []int64
	approvals map[int64]bool
	visible   []*repositories.NoteDetails
	mine      []*repositories.NoteDetails
}

func (f *fakeNoteStore) Create(_ context.Context, note *models.Note) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	note.ID = 1
	f.created = note
	return 1, nil
}

func (f *fakeNoteStore) ListVisible(_ context.Context, _ models.Scope, _ *int64) ([]*repositories.NoteDetails, error) {
	return f.visible, nil
}

func (f *fakeNoteStore) ListByUploader(_ context.Context, _ int64) ([]*repositories.NoteDetails, error) {
	return f.mine, nil
}

func (f *fakeNoteStore) GetByID(_ context.Context, _ int64) (*models.Note, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeNoteStore) UpdateOwned(_ context.Context, _, _ int64, _ string, _ *string) error {
	return nil
}

func (f *fakeNoteStore) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeNoteStore) SetApproval(_ context.Context, id int64, approved bool) error {
	if f.approvals == nil {
		f.approvals = map[int64]bool{}
	}
	f.approvals[id] = approved
	return nil
}

type fakeRatingStore struct {
	upsertErr error
	average   float64
	noteID    int64
	userID    int64
	rating    int
}

func (f *fakeRatingStore) Upsert(_ context.Context, noteID, userID int64, rating int) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.noteID, f.userID, f.rating = noteID, userID, rating
	return nil
}

func (f *fakeRatingStore) AverageForNote(_ context.Context, _ int64) (float64, error) {
	return f.average, nil
}

type fakeStorage struct {
	saveErr error
	saved   []string
	deleted []string
}

func (f *fakeStorage) Save(_ context.Context, file *multipart.FileHeader) (string, string, error) {
	if f.saveErr != nil {
		return "", "", f.saveErr
	}
	key := "blob-" + file.Filename
	f.saved = append(f.saved, key)
	return "http://files.local/" + key, key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type noteServiceFixture struct {
	svc      NoteService
	subjects *fakeSubjectStore
	notes    *fakeNoteStore
	ratings  *fakeRatingStore
	storage  *fakeStorage
}

func newNoteServiceFixture(maxFileSize int64) *noteServiceFixture {
	f := &noteServiceFixture{
		subjects: &fakeSubjectStore{exists: true},
		notes:    &fakeNoteStore{},
		ratings:  &fakeRatingStore{},
		storage:  &fakeStorage{},
	}
	f.svc = NewNoteService(f.subjects, f.notes, f.ratings, f.storage, maxFileSize, zerolog.Nop())
	return f
}

func testStudent() *models.User {
	return &models.User{ID: 7, Name: "Asha", Branch: "CSE", Year: 2, Semester: 3, Role: models.RoleStudent}
}

func testAdmin() *models.User {
	return &models.User{ID: 1, Name: "Admin", Role: models.RoleAdmin}
}

// fileHeader builds a real multipart.FileHeader by round-tripping a form
// through the HTTP parser.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func pdfHeader(t *testing.T) *multipart.FileHeader {
	return fileHeader(t, "notes.pdf", "application/pdf", []byte("%PDF-1.4 fake content"))
}

func uploadReq() *dto.UploadNoteRequest {
	return &dto.UploadNoteRequest{Title: "Unit 1 Notes", SubjectID: 3}
}

func TestUpload_Student(t *testing.T) {
	f := newNoteServiceFixture(0)

	resp, err := f.svc.Upload(context.Background(), testStudent(), uploadReq(), pdfHeader(t))
	require.NoError(t, err)

	assert.Contains(t, resp.Message, "awaiting approval")
	assert.Equal(t, "http://files.local/blob-notes.pdf", resp.FileURL)

	note := f.notes.created
	require.NotNil(t, note)
	assert.False(t, note.Approved)
	require.NotNil(t, note.BatchYear)
	assert.Equal(t, 2, *note.BatchYear)
	assert.Equal(t, int64(7), note.UploadedBy)
	assert.Equal(t, models.FileTypePDF, note.FileType)
}

func TestUpload_AdminAutoApproved(t *testing.T) {
	f := newNoteServiceFixture(0)

	resp, err := f.svc.Upload(context.Background(), testAdmin(), uploadReq(), pdfHeader(t))
	require.NoError(t, err)

	assert.Contains(t, resp.Message, "auto-approved")

	note := f.notes.created
	require.NotNil(t, note)
	assert.True(t, note.Approved)
	assert.Nil(t, note.BatchYear, "admin uploads carry no batch year")
}

func TestUpload_Validation(t *testing.T) {
	tests := []struct {
		name    string
		file    func(t *testing.T) *multipart.FileHeader
		wantErr error
	}{
		{
			name:    "missing file",
			file:    func(t *testing.T) *multipart.FileHeader { return nil },
			wantErr: apperrors.ErrFileRequired,
		},
		{
			name: "wrong extension",
			file: func(t *testing.T) *multipart.FileHeader {
				return fileHeader(t, "notes.txt", "application/pdf", []byte("%PDF-1.4"))
			},
			wantErr: apperrors.ErrUnsupportedFileType,
		},
		{
			name: "wrong declared type",
			file: func(t *testing.T) *multipart.FileHeader {
				return fileHeader(t, "notes.pdf", "image/png", []byte("%PDF-1.4"))
			},
			wantErr: apperrors.ErrUnsupportedFileType,
		},
		{
			name: "missing declared type",
			file: func(t *testing.T) *multipart.FileHeader {
				return fileHeader(t, "notes.pdf", "", []byte("%PDF-1.4"))
			},
			wantErr: apperrors.ErrUnsupportedFileType,
		},
		{
			name: "wrong magic bytes",
			file: func(t *testing.T) *multipart.FileHeader {
				return fileHeader(t, "notes.pdf", "application/pdf", []byte("<html>not a pdf</html>"))
			},
			wantErr: apperrors.ErrUnsupportedFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newNoteServiceFixture(0)
			_, err := f.svc.Upload(context.Background(), testStudent(), uploadReq(), tt.file(t))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.storage.saved, "nothing should reach storage")
			assert.Nil(t, f.notes.created)
		})
	}
}

func TestUpload_FileTooLarge(t *testing.T) {
	f := newNoteServiceFixture(4)

	_, err := f.svc.Upload(context.Background(), testStudent(), uploadReq(), pdfHeader(t))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
	assert.Empty(t, f.storage.saved)
}

func TestUpload_SubjectOutOfScope(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.subjects.exists = false

	_, err := f.svc.Upload(context.Background(), testStudent(), uploadReq(), pdfHeader(t))
	assert.ErrorIs(t, err, apperrors.ErrInvalidSubject)
	assert.Empty(t, f.storage.saved, "scope check runs before the blob write")
}

func TestUpload_InsertFailureRemovesBlob(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.notes.createErr = errors.New("insert failed")

	_, err := f.svc.Upload(context.Background(), testStudent(), uploadReq(), pdfHeader(t))
	require.Error(t, err)

	require.Len(t, f.storage.saved, 1)
	assert.Equal(t, f.storage.saved, f.storage.deleted, "orphaned blob must be removed")
}

func TestRate_Bounds(t *testing.T) {
	f := newNoteServiceFixture(0)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.Rate(context.Background(), testStudent(), &dto.RateNoteRequest{NoteID: 1, Rating: rating})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRating, "rating %d", rating)
	}
}

func TestRate_Success(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.ratings.average = 4.5

	avg, err := f.svc.Rate(context.Background(), testStudent(), &dto.RateNoteRequest{NoteID: 9, Rating: 5})
	require.NoError(t, err)

	assert.Equal(t, 4.5, avg)
	assert.Equal(t, int64(9), f.ratings.noteID)
	assert.Equal(t, int64(7), f.ratings.userID)
	assert.Equal(t, 5, f.ratings.rating)
}

// keyedRatingStore keeps one value per (note, user) pair, matching the
// database unique constraint.
type keyedRatingStore struct {
	rows map[[2]int64]int
}

func (f *keyedRatingStore) Upsert(_ context.Context, noteID, userID int64, rating int) error {
	if f.rows == nil {
		f.rows = make(map[[2]int64]int)
	}
	f.rows[[2]int64{noteID, userID}] = rating
	return nil
}

func (f *keyedRatingStore) AverageForNote(_ context.Context, noteID int64) (float64, error) {
	sum, count := 0, 0
	for key, rating := range f.rows {
		if key[0] == noteID {
			sum += rating
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func TestRate_RepeatVoteOverwrites(t *testing.T) {
	f := newNoteServiceFixture(0)
	ratings := &keyedRatingStore{}
	f.svc = NewNoteService(f.subjects, f.notes, ratings, f.storage, 0, zerolog.Nop())

	_, err := f.svc.Rate(context.Background(), testStudent(), &dto.RateNoteRequest{NoteID: 9, Rating: 3})
	require.NoError(t, err)

	avg, err := f.svc.Rate(context.Background(), testStudent(), &dto.RateNoteRequest{NoteID: 9, Rating: 5})
	require.NoError(t, err)

	require.Len(t, ratings.rows, 1, "repeat vote must overwrite, not add a row")
	assert.Equal(t, 5, ratings.rows[[2]int64{9, 7}])
	assert.Equal(t, 5.0, avg)
}

func TestRate_UnknownNote(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.ratings.upsertErr = &pgconn.PgError{Code: "23503"}

	_, err := f.svc.Rate(context.Background(), testStudent(), &dto.RateNoteRequest{NoteID: 99, Rating: 3})
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestDelete_OwnerRemovesRowAndBlob(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.notes.byID = &models.Note{ID: 5, UploadedBy: 7, StorageKey: "blob-5"}

	err := f.svc.Delete(context.Background(), testStudent(), 5)
	require.NoError(t, err)

	assert.Equal(t, []int64{5}, f.notes.deleted)
	assert.Equal(t, []string{"blob-5"}, f.storage.deleted)
}

func TestDelete_NotOwner(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.notes.byID = &models.Note{ID: 5, UploadedBy: 99, StorageKey: "blob-5"}

	err := f.svc.Delete(context.Background(), testStudent(), 5)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	assert.Empty(t, f.notes.deleted)
}

func TestDelete_AdminBypassesOwnership(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.notes.byID = &models.Note{ID: 5, UploadedBy: 99, StorageKey: "blob-5"}

	err := f.svc.Delete(context.Background(), testAdmin(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, f.notes.deleted)
}

func TestDelete_MissingNote(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.notes.byIDErr = apperrors.ErrNoteNotFound

	err := f.svc.Delete(context.Background(), testStudent(), 5)
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestApprove(t *testing.T) {
	f := newNoteServiceFixture(0)

	require.NoError(t, f.svc.Approve(context.Background(), 3, true))
	require.NoError(t, f.svc.Approve(context.Background(), 4, false))

	assert.Equal(t, map[int64]bool{3: true, 4: false}, f.notes.approvals)
}

func TestListSubjects(t *testing.T) {
	f := newNoteServiceFixture(0)
	f.subjects.subjects = []*models.Subject{
		{ID: 1, Name: "Data Structures", Branch: "CSE", Semester: 3},
		{ID: 2, Name: "DBMS", Branch: "CSE", Semester: 3},
	}

	subjects, err := f.svc.ListSubjects(context.Background(), testStudent())
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, int64(1), subjects[0].SubjectID)
	assert.Equal(t, "Data Structures", subjects[0].SubjectName)
}
