package routes

import (
	"blog-backend/handlers/users"
	"blog-backend/middleware"

	"github.com/gin-gonic/gin"
)

func UsersRoutes(r *gin.Engine) {
	// Routes protégées
	usersRoutes := r.Group("/users")
	usersRoutes.Use(middleware.JWTAuth())
	{
		usersRoutes.GET("/profile", users.GetUserProfile)
		usersRoutes.PUT("/profile", users.UpdateUserProfile)
		usersRoutes.PUT("/password", users.ChangePassword)
	}

	// Routes admin
	usersAdminRoutes := r.Group("/users")
	usersAdminRoutes.Use(middleware.AdminAuth())
	usersAdminRoutes.GET("", users.GetAllUsers)
}
