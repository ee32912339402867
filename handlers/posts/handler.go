package posts

import (
	"net/http"

	"blog-backend/db"
	"blog-backend/models"
	"blog-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// orderingClause traduit le paramètre "ordering" en clause SQL sûre
func orderingClause(ordering string) string {
	switch ordering {
	case "created_at":
		return "created_at ASC"
	case "-created_at":
		return "created_at DESC"
	case "updated_at":
		return "updated_at ASC"
	case "-updated_at":
		return "updated_at DESC"
	case "views_count":
		return "views_count ASC"
	case "-views_count":
		return "views_count DESC"
	}
	return "created_at DESC"
}

func activeCommentsCount(postID string) int64 {
	var count int64
	db.DB.Model(&models.Comment{}).Where("post_id = ? AND is_active = ?", postID, true).Count(&count)
	return count
}

// @Summary Create a new post
// @Description Create a post; the slug is derived from the title, the author from the token
// @Tags posts
// @Accept json
// @Produce json
// @Param post body models.PostCreate true "Post information"
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts [post]
func CreatePost(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var input models.PostCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	status := models.PostStatus(input.Status)
	if status == "" {
		status = models.PostPublished
	}
	if status != models.PostDraft && status != models.PostPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be draft or published"})
		return
	}

	if input.CategoryID != nil {
		var category models.Category
		if err := db.DB.First(&category, "id = ?", *input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
	}

	post := models.Post{
		Title:      input.Title,
		Slug:       slug.Make(input.Title),
		Content:    input.Content,
		Image:      input.Image,
		Status:     status,
		AuthorID:   userID.(string),
		CategoryID: input.CategoryID,
	}

	if err := db.DB.Create(&post).Error; err != nil {
		// Slug unique: un titre en double est rejeté par la contrainte
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating post: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Post created: "+post.Slug)
	c.JSON(http.StatusCreated, post)
}

// @Summary Get all published posts
// @Description Retrieve published posts with optional filtering, search and ordering
// @Tags posts
// @Produce json
// @Param category query string false "Filter by category ID"
// @Param author query string false "Filter by author ID"
// @Param search query string false "Free-text search over title and content"
// @Param ordering query string false "created_at, updated_at or views_count, prefix - for descending"
// @Success 200 {object} map[string]interface{} "posts: list of posts"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts [get]
func GetAllPosts(c *gin.Context) {
	query := db.DB.Where("status = ?", models.PostPublished)

	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if author := c.Query("author"); author != "" {
		query = query.Where("author_id = ?", author)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ? OR content ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var posts []models.Post
	if err := query.Order(orderingClause(c.Query("ordering"))).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for i := range posts {
		posts[i].CommentsCount = activeCommentsCount(posts[i].ID)
		// La liste tronque le contenu, le détail le renvoie en entier
		if len(posts[i].Content) > 200 {
			posts[i].Content = posts[i].Content[:200] + "..."
		}
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// @Summary Get a post by ID
// @Description Retrieve a published post and increment its view counter
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{} "post with author and category info"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id} [get]
func GetPostByID(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := db.DB.First(&post, "id = ? AND status = ?", postID, models.PostPublished).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if err := db.DB.Model(&post).UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error incrementing views: " + err.Error()})
		return
	}
	post.ViewsCount++

	post.CommentsCount = activeCommentsCount(post.ID)

	var author models.User
	db.DB.Select("id, username, first_name, last_name, avatar").Where("id = ?", post.AuthorID).First(&author)

	response := gin.H{
		"post": post,
		"author": models.AuthorInfo{
			ID:       author.ID,
			Username: author.Username,
			FullName: author.FullName(),
			Avatar:   author.Avatar,
		},
	}

	if post.CategoryID != nil {
		var category models.Category
		if err := db.DB.First(&category, "id = ?", *post.CategoryID).Error; err == nil {
			response["category"] = gin.H{
				"id":   category.ID,
				"name": category.Name,
				"slug": category.Slug,
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update a post
// @Description Update one of your own posts; the slug follows the title
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param post body models.PostUpdate true "Updated post information"
// @Security BearerAuth
// @Success 200 {object} models.Post
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not the author"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id} [put]
func UpdatePost(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	postID := c.Param("id")

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.AuthorID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	var input models.PostUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.Title != nil {
		post.Title = *input.Title
		post.Slug = slug.Make(*input.Title)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Image != nil {
		post.Image = *input.Image
	}
	if input.CategoryID != nil {
		post.CategoryID = input.CategoryID
	}
	if input.Status != nil {
		status := models.PostStatus(*input.Status)
		if status != models.PostDraft && status != models.PostPublished {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be draft or published"})
			return
		}
		post.Status = status
	}

	if err := db.DB.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating post: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, post)
}

// @Summary Delete a post
// @Description Delete one of your own posts; its comments are deleted with it
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Post deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not the author"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id} [delete]
func DeletePost(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	postID := c.Param("id")

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.AuthorID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := db.DB.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting post: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Post "+postID+" deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
