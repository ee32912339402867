package comments

import (
	"net/http"
	"strings"

	"blog-backend/db"
	"blog-backend/models"
	"blog-backend/utils"

	"github.com/gin-gonic/gin"
)

// toCommentResponse construit la représentation publique d'un commentaire
// (infos auteur + nombre de réponses actives)
func toCommentResponse(comment models.Comment) models.CommentResponse {
	var author models.User
	db.DB.Select("id, username, first_name, last_name, avatar").Where("id = ?", comment.AuthorID).First(&author)

	var repliesCount int64
	db.DB.Model(&models.Comment{}).Where("parent_id = ? AND is_active = ?", comment.ID, true).Count(&repliesCount)

	return models.CommentResponse{
		ID:       comment.ID,
		Content:  comment.Content,
		IsActive: comment.IsActive,
		PostID:   comment.PostID,
		ParentID: comment.ParentID,
		Author: models.AuthorInfo{
			ID:       author.ID,
			Username: author.Username,
			FullName: author.FullName(),
			Avatar:   author.Avatar,
		},
		RepliesCount: repliesCount,
		IsReply:      comment.IsReply(),
		CreatedAt:    comment.CreatedAt,
		UpdatedAt:    comment.UpdatedAt,
	}
}

// fetchActiveReplies récupère les réponses directes actives d'un commentaire,
// triées par date de création croissante
func fetchActiveReplies(commentID string) ([]models.CommentResponse, error) {
	var replies []models.Comment
	if err := db.DB.Where("parent_id = ? AND is_active = ?", commentID, true).
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, err
	}

	responses := make([]models.CommentResponse, 0, len(replies))
	for _, reply := range replies {
		responses = append(responses, toCommentResponse(reply))
	}
	return responses, nil
}

// orderingClause traduit le paramètre "ordering" en clause SQL sûre.
// Seuls created_at et updated_at sont triables, préfixe "-" pour décroissant.
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
	}
	return "created_at DESC"
}

// @Summary Create a new comment
// @Description Create a comment on a published post, optionally as a reply to another comment
// @Tags comments
// @Accept json
// @Produce json
// @Param comment body models.CommentCreate true "Comment information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "comment: created comment"
// @Failure 400 {object} map[string]string "error: Invalid input or parent mismatch"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments [post]
func CreateComment(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var input models.CommentCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The content cannot be empty"})
		return
	}

	// Le post doit exister et être publié
	var post models.Post
	if err := db.DB.First(&post, "id = ? AND status = ?", input.PostID, models.PostPublished).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// Une réponse doit référencer un commentaire du même post
	if input.ParentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, "id = ?", *input.ParentID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment not found"})
			return
		}
		if parent.PostID != input.PostID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment must belong to the same post"})
			return
		}
	}

	comment := models.Comment{
		Content:  content,
		IsActive: true,
		PostID:   input.PostID,
		AuthorID: userID.(string),
		ParentID: input.ParentID,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating comment: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Comment created on post "+input.PostID)
	c.JSON(http.StatusCreated, gin.H{"comment": toCommentResponse(comment)})
}

// @Summary List comments
// @Description Retrieve active comments with optional filters, search and ordering
// @Tags comments
// @Produce json
// @Param post query string false "Filter by post ID"
// @Param author query string false "Filter by author ID"
// @Param parent query string false "Filter by parent comment ID"
// @Param search query string false "Free-text search over content"
// @Param ordering query string false "created_at, -created_at, updated_at or -updated_at"
// @Success 200 {object} map[string]interface{} "comments: list of comments"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments [get]
func GetAllComments(c *gin.Context) {
	query := db.DB.Where("is_active = ?", true)

	if post := c.Query("post"); post != "" {
		query = query.Where("post_id = ?", post)
	}
	if author := c.Query("author"); author != "" {
		query = query.Where("author_id = ?", author)
	}
	if parent := c.Query("parent"); parent != "" {
		query = query.Where("parent_id = ?", parent)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("content ILIKE ?", "%"+search+"%")
	}

	var comments []models.Comment
	if err := query.Order(orderingClause(c.Query("ordering"))).Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}

	c.JSON(http.StatusOK, gin.H{"comments": responses})
}

// @Summary Get a comment with its replies
// @Description Retrieve one active comment; root comments embed their active replies
// @Tags comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} map[string]interface{} "comment: comment with replies"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments/{id} [get]
func GetCommentByID(c *gin.Context) {
	commentID := c.Param("id")

	var comment models.Comment
	if err := db.DB.First(&comment, "id = ? AND is_active = ?", commentID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	detail := models.CommentDetailResponse{
		CommentResponse: toCommentResponse(comment),
		Replies:         []models.CommentResponse{},
	}

	// Seuls les commentaires racines embarquent leurs réponses
	if comment.ParentID == nil {
		replies, err := fetchActiveReplies(comment.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving replies: " + err.Error()})
			return
		}
		detail.Replies = replies
	}

	c.JSON(http.StatusOK, gin.H{"comment": detail})
}

// @Summary Update a comment
// @Description Update the content of one of your own comments
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param comment body models.CommentUpdate true "New content"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "comment: updated comment"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not the author"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments/{id} [put]
func UpdateComment(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	commentID := c.Param("id")

	var comment models.Comment
	if err := db.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}

	var input models.CommentUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The content cannot be empty"})
		return
	}

	comment.Content = content
	if err := db.DB.Save(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating comment: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": toCommentResponse(comment)})
}

// @Summary Delete a comment
// @Description Permanently delete one of your own comments; its replies are deleted with it
// @Tags comments
// @Produce json
// @Param id path string true "Comment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Comment deleted"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not the author"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments/{id} [delete]
func DeleteComment(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	commentID := c.Param("id")

	var comment models.Comment
	if err := db.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != userID.(string) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting comment: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Comment "+commentID+" deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Comment and its replies deleted permanently"})
}

// @Summary List my comments
// @Description Retrieve your own comments, including deactivated ones unless filtered
// @Tags comments
// @Produce json
// @Param post query string false "Filter by post ID"
// @Param parent query string false "Filter by parent comment ID"
// @Param is_active query boolean false "Filter on the active flag"
// @Param search query string false "Free-text search over content"
// @Param ordering query string false "created_at, -created_at, updated_at or -updated_at"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "comments: list of comments"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments/my [get]
func GetMyComments(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	query := db.DB.Where("author_id = ?", userID)

	// Contrairement à la liste publique, le filtre is_active est au choix
	// de l'appelant: un auteur peut voir ses commentaires désactivés
	switch c.Query("is_active") {
	case "true":
		query = query.Where("is_active = ?", true)
	case "false":
		query = query.Where("is_active = ?", false)
	}

	if post := c.Query("post"); post != "" {
		query = query.Where("post_id = ?", post)
	}
	if parent := c.Query("parent"); parent != "" {
		query = query.Where("parent_id = ?", parent)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("content ILIKE ?", "%"+search+"%")
	}

	var comments []models.Comment
	if err := query.Order(orderingClause(c.Query("ordering"))).Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}

	c.JSON(http.StatusOK, gin.H{"comments": responses})
}

// @Summary Get the comment thread of a post
// @Description Root comments of a published post (newest first), each with its active replies (oldest first)
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{} "post summary, comments and active comment count"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id}/comments [get]
func GetPostComments(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := db.DB.First(&post, "id = ? AND status = ?", postID, models.PostPublished).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var roots []models.Comment
	if err := db.DB.Where("post_id = ? AND parent_id IS NULL AND is_active = ?", postID, true).
		Order("created_at DESC").
		Find(&roots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving comments: " + err.Error()})
		return
	}

	thread := make([]models.CommentDetailResponse, 0, len(roots))
	for _, root := range roots {
		replies, err := fetchActiveReplies(root.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving replies: " + err.Error()})
			return
		}
		thread = append(thread, models.CommentDetailResponse{
			CommentResponse: toCommentResponse(root),
			Replies:         replies,
		})
	}

	// Le compteur est toujours calculé en direct, jamais stocké
	var commentCount int64
	if err := db.DB.Model(&models.Comment{}).Where("post_id = ? AND is_active = ?", postID, true).
		Count(&commentCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting comments: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post": gin.H{
			"id":    post.ID,
			"title": post.Title,
			"slug":  post.Slug,
		},
		"comments":     thread,
		"commentCount": commentCount,
	})
}

// @Summary Get the replies of a comment
// @Description Active replies of an active comment, oldest first
// @Tags comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} map[string]interface{} "parentComment, replies and repliesCount"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments/{id}/replies [get]
func GetCommentReplies(c *gin.Context) {
	commentID := c.Param("id")

	var parent models.Comment
	if err := db.DB.First(&parent, "id = ? AND is_active = ?", commentID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	replies, err := fetchActiveReplies(parent.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving replies: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"parentComment": toCommentResponse(parent),
		"replies":       replies,
		"repliesCount":  len(replies),
	})
}

// @Summary Bulk activate or deactivate comments
// @Description Moderation: set the active flag on a set of comments in one statement
// @Tags comments
// @Accept json
// @Produce json
// @Param body body models.CommentBulkActive true "Comment IDs and target flag"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "updated: number of comments updated"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Admin role required"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments/bulk-active [patch]
func BulkSetActive(c *gin.Context) {
	var input models.CommentBulkActive
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if len(input.CommentIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No comment ids provided"})
		return
	}

	result := db.DB.Model(&models.Comment{}).
		Where("id IN ?", input.CommentIDs).
		Update("is_active", *input.IsActive)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating comments: " + result.Error.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": result.RowsAffected})
}
