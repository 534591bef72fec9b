package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akshat/notestack/internal/app/models/dto"
	"github.com/akshat/notestack/internal/app/services"
	"github.com/akshat/notestack/internal/middleware"
)

// NoteController handles subject browsing, note CRUD and ratings.
type NoteController struct {
	noteService services.NoteService
	logger      zerolog.Logger
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService services.NoteService, logger zerolog.Logger) *NoteController {
	return &NoteController{
		noteService: noteService,
		logger:      logger,
	}
}

// ListSubjects returns the subjects visible to the caller's scope.
func (c *NoteController) ListSubjects(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortNoUser(ctx)
		return
	}

	subjects, err := c.noteService.ListSubjects(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: subjects})
}

// Upload accepts a multipart PDF upload with its metadata form fields.
func (c *NoteController) Upload(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortNoUser(ctx)
		return
	}

	var req dto.UploadNoteRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "title and subject_id are required"),
		})
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		file = nil
	}

	resp, err := c.noteService.Upload(ctx.Request.Context(), user, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// List returns visible notes, optionally filtered by ?subject_id=.
func (c *NoteController) List(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortNoUser(ctx)
		return
	}

	var subjectID *int64
	if raw := ctx.Query("subjectId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.APIResponse{
				Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "subjectId must be a positive integer").WithField("subjectId"),
			})
			return
		}
		subjectID = &id
	}

	notes, err := c.noteService.List(ctx.Request.Context(), user, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: notes})
}

// ListMine returns the caller's own uploads regardless of approval.
func (c *NoteController) ListMine(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortNoUser(ctx)
		return
	}

	notes, err := c.noteService.ListMine(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: notes})
}

// Update edits title/description of an owned note.
func (c *NoteController) Update(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortNoUser(ctx)
		return
	}

	noteID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "title is required"),
		})
		return
	}

	if err := c.noteService.Update(ctx.Request.Context(), user, noteID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Note updated"},
	})
}

// Delete removes a note the caller owns (or any note for admins).
func (c *NoteController) Delete(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortNoUser(ctx)
		return
	}

	noteID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.noteService.Delete(ctx.Request.Context(), user, noteID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Note deleted"},
	})
}

// Rate records or replaces the caller's rating of a note.
func (c *NoteController) Rate(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortNoUser(ctx)
		return
	}

	var req dto.RateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "note_id and rating are required"),
		})
		return
	}

	average, err := c.noteService.Rate(ctx.Request.Context(), user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.RateNoteResponse{
			Message:       "Rating saved",
			AverageRating: average,
		},
	})
}

// Approve flips a note's moderation flag. Admin only.
func (c *NoteController) Approve(ctx *gin.Context) {
	noteID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ApproveNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Approved == nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "approved is required"),
		})
		return
	}

	if err := c.noteService.Approve(ctx.Request.Context(), noteID, *req.Approved); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Approval updated"},
	})
}

// parseIDParam reads a positive integer path parameter or writes a 400.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "invalid id parameter"),
		})
		return 0, false
	}
	return id, true
}

func abortNoUser(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
		Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
	})
}
