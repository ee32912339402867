package routes

import (
	"blog-backend/handlers/comments"
	"blog-backend/middleware"

	"github.com/gin-gonic/gin"
)

func CommentsRoutes(r *gin.Engine) {
	// Routes publiques (lecture seule)
	r.GET("/comments", comments.GetAllComments)
	r.GET("/comments/:id", comments.GetCommentByID)
	r.GET("/comments/:id/replies", comments.GetCommentReplies)
	r.GET("/posts/:id/comments", comments.GetPostComments)

	// Routes protégées
	commentsRoutes := r.Group("/comments")
	commentsRoutes.Use(middleware.JWTAuth())
	{
		commentsRoutes.POST("", comments.CreateComment)
		commentsRoutes.GET("/my", comments.GetMyComments)
		commentsRoutes.PUT("/:id", comments.UpdateComment)
		commentsRoutes.DELETE("/:id", comments.DeleteComment)
	}

	// Routes admin (modération)
	commentsAdminRoutes := r.Group("/comments")
	commentsAdminRoutes.Use(middleware.AdminAuth())
	commentsAdminRoutes.PATCH("/bulk-active", comments.BulkSetActive)
}
