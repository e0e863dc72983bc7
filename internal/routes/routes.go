package routes

import (
	"project-collab-api/internal/handlers"
	"project-collab-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()
	ginRouter.Use(middleware.RequestID())

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project collaboration API is running",
		})
	})

	// VCS webhooks authenticate by obscurity of the endpoint, not by JWT;
	// the providers cannot carry our tokens.
	webhooks := ginRouter.Group("/webhooks")
	{
		webhooks.POST("/github", handlers.GitHubWebhook)
		webhooks.POST("/bitbucket", handlers.BitbucketWebhook)
	}

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", handlers.Register)
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Project endpoints
		protectedRoutes.GET("/projects", handlers.GetProjects)
		protectedRoutes.POST("/projects", handlers.CreateProject)
		protectedRoutes.GET("/projects/:id", handlers.GetProject)
		protectedRoutes.GET("/projects/:id/permissions", handlers.GetProjectPermissions)
		protectedRoutes.DELETE("/projects/:id/participants/:user_id", handlers.RemoveParticipant)
		protectedRoutes.GET("/projects/:id/plan", handlers.GetProjectPlan)
		protectedRoutes.GET("/projects/:id/timesheet", handlers.GetProjectTimesheetCalendar)

		// Task endpoints
		protectedRoutes.GET("/projects/:id/tasks", handlers.GetProjectTasks)
		protectedRoutes.POST("/projects/:id/tasks", handlers.CreateTask)
		protectedRoutes.GET("/tasks/:id", handlers.GetTask)
		protectedRoutes.POST("/tasks/:id/updates", handlers.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id/assignee", handlers.AssignTask)
		protectedRoutes.DELETE("/tasks/:id/assignee", handlers.ClearAssignee)
		protectedRoutes.PATCH("/tasks/:id/progress", handlers.ChangeProgressState)
		protectedRoutes.PATCH("/tasks/:id/constraint-dates", handlers.ChangeConstraintDates)
		protectedRoutes.PATCH("/tasks/:id/effort", handlers.ChangeEffort)
		protectedRoutes.DELETE("/tasks/:id", handlers.DeleteTask)
		protectedRoutes.POST("/tasks/:id/watch", handlers.WatchTask)
		protectedRoutes.POST("/tasks/:id/unwatch", handlers.UnwatchTask)
		protectedRoutes.PATCH("/tasks/:id/comments/:comment_id", handlers.UpdateComment)
		protectedRoutes.GET("/my-tasks", handlers.GetMyTasks)

		// Tag endpoints
		protectedRoutes.POST("/projects/:id/tags", handlers.CreateTag)
		protectedRoutes.DELETE("/projects/:id/tags/:tag_id", handlers.DeleteTag)
		protectedRoutes.POST("/tasks/:id/tags/:tag_id", handlers.AddTagToTask)
		protectedRoutes.DELETE("/tasks/:id/tags/:tag_id", handlers.RemoveTagFromTask)

		// Invitation endpoints
		protectedRoutes.POST("/projects/:id/invitations", handlers.Invite)
		protectedRoutes.DELETE("/projects/:id/invitations/:invitation_id", handlers.RemoveInvitation)
		protectedRoutes.POST("/projects/:id/invitations/:invitation_id/resend", handlers.ResendInvitation)

		// Work period endpoints
		protectedRoutes.GET("/periods", handlers.ListPeriods)
		protectedRoutes.POST("/periods", handlers.CreatePeriods)

		// Attachment endpoints
		protectedRoutes.POST("/projects/:id/attachments", handlers.UploadProjectAttachment)
		protectedRoutes.POST("/tasks/:id/attachments", handlers.UploadTaskAttachment)
		protectedRoutes.GET("/attachments/:id/download", handlers.DownloadAttachment)

		// Timesheet endpoints
		protectedRoutes.POST("/tasks/:id/timesheet", handlers.MarkTime)
		protectedRoutes.GET("/tasks/:id/timesheet", handlers.GetTaskTimesheet)
		protectedRoutes.GET("/timesheet", handlers.GetTimesheetCalendar)

		// Users endpoint
		protectedRoutes.GET("/users", handlers.GetAllUsers)

		// Realtime events
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
