package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/akshat/notestack/internal/app/controllers"
	"github.com/akshat/notestack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	noteController *controllers.NoteController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		notes := authenticated.Group("/notes")
		{
			notes.GET("/subjects", noteController.ListSubjects)
			notes.POST("/upload", noteController.Upload)
			notes.GET("", noteController.List)
			notes.GET("/mine", noteController.ListMine)
			notes.POST("/rate", noteController.Rate)
			notes.PUT("/:id", noteController.Update)
			notes.DELETE("/:id", noteController.Delete)
			notes.PUT("/:id/approve", authMiddleware.AdminRequired(), noteController.Approve)
		}

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.AdminRequired())
		{
			admin.GET("/users", adminController.ListUsers)
			admin.GET("/notes", adminController.ListNotes)
			admin.GET("/ratings", adminController.ListRatings)

			// Admin scope makes these behave differently: all subjects,
			// auto-approved uploads, delete regardless of owner.
			admin.GET("/subjects", noteController.ListSubjects)
			admin.POST("/upload", noteController.Upload)
			admin.PUT("/notes/:id/approve", noteController.Approve)
			admin.DELETE("/notes/:id", noteController.Delete)
		}
	}
}
