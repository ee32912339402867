package main

import (
	"os"

	"blog-backend/db"
	"blog-backend/routes"
	"blog-backend/utils"

	"github.com/gin-gonic/gin"
)

// @title Blog Backend API
// @version 1.0
// @description API REST pour la plateforme de blog (posts, catégories, commentaires)
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Entrez le JWT avec le préfixe Bearer: Bearer <JWT>
func main() {
	gin.SetMode(gin.ReleaseMode)

	// Initialiser la base de données
	db.InitDB()

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.LogInfo("Blog backend starting on :" + port)
	if err := r.Run(":" + port); err != nil {
		utils.LogError(err, "Erreur lors du démarrage du serveur")
		panic(err)
	}
}
