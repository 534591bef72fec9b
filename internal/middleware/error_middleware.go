package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/akshat/notestack/internal/app/models/dto"
	"github.com/akshat/notestack/internal/pkg/apperrors"
	"github.com/akshat/notestack/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Sentinels keep
// their original messages; anything unrecognized becomes a 500 without
// leaking internals.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, 401, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, 401, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, 401, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrNotOwner):
		respondError(c, 403, dto.ErrorCodeForbidden, apperrors.ErrNotOwner.Error())
	case errors.Is(err, apperrors.ErrUserNotFound):
		respondError(c, 404, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrNoteNotFound):
		respondError(c, 404, dto.ErrorCodeResourceNotFound, "Note not found")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respondError(c, 409, dto.ErrorCodeResourceAlreadyExists, "Email already registered")
	case errors.Is(err, apperrors.ErrFileTooLarge):
		respondError(c, 413, dto.ErrorCodeFileTooLarge, "File too large")
	case errors.Is(err, apperrors.ErrInvalidYear),
		errors.Is(err, apperrors.ErrInvalidSubject),
		errors.Is(err, apperrors.ErrInvalidRating),
		errors.Is(err, apperrors.ErrFileRequired),
		errors.Is(err, apperrors.ErrUnsupportedFileType),
		errors.Is(err, apperrors.ErrValidationFailed):
		respondError(c, 400, dto.ErrorCodeValidationFailed, err.Error())
	default:
		logger.Error().Err(err).Msg("Unhandled API error")
		respondError(c, 500, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.APIResponse{
		Error: dto.NewErrorDetail(code, message),
	})
}
