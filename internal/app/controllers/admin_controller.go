package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akshat/notestack/internal/app/models/dto"
	"github.com/akshat/notestack/internal/app/services"
	"github.com/akshat/notestack/internal/middleware"
)

// AdminController serves the moderation read views. Every route behind it
// already passed JWTAuth and AdminRequired.
type AdminController struct {
	adminService services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// ListUsers returns every account.
func (c *AdminController) ListUsers(ctx *gin.Context) {
	users, err := c.adminService.ListUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: users})
}

// ListNotes returns every note, approved or not, with uploader emails.
func (c *AdminController) ListNotes(ctx *gin.Context) {
	notes, err := c.adminService.ListNotes(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: notes})
}

// ListRatings returns every rating with its note and voter.
func (c *AdminController) ListRatings(ctx *gin.Context) {
	ratings, err := c.adminService.ListRatings(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: ratings})
}
