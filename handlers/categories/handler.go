package categories

import (
	"net/http"

	"blog-backend/db"
	"blog-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

// @Summary Create a new category
// @Description Create a new category; the slug is derived from the name
// @Tags categories
// @Accept json
// @Produce json
// @Param category body models.CategoryCreate true "Category information"
// @Security BearerAuth
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Admin role required"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /categories [post]
func CreateCategory(c *gin.Context) {
	var input models.CategoryCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var existingCategory models.Category
	result := db.DB.First(&existingCategory, "name = ?", input.Name)
	if result.Error == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists"})
		return
	}

	category := models.Category{
		Name:        input.Name,
		Slug:        slug.Make(input.Name),
		Description: input.Description,
	}

	if err := db.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating category: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// @Summary Get all categories
// @Description Retrieve all categories with their published post counts
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /categories [get]
func GetAllCategories(c *gin.Context) {
	var categories []models.Category

	result := db.DB.Order("name ASC").Find(&categories)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	for i := range categories {
		var count int64
		db.DB.Model(&models.Post{}).
			Where("category_id = ? AND status = ?", categories[i].ID, models.PostPublished).
			Count(&count)
		categories[i].PostsCount = count
	}

	c.JSON(http.StatusOK, categories)
}

// @Summary Update a category
// @Description Update a category; the slug follows the name
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body models.CategoryCreate true "Updated category information"
// @Security BearerAuth
// @Success 200 {object} models.Category
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Admin role required"
// @Failure 404 {object} map[string]string "error: Category not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /categories/{id} [put]
func UpdateCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var category models.Category
	if err := db.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var input models.CategoryCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	category.Name = input.Name
	category.Slug = slug.Make(input.Name)
	category.Description = input.Description

	if err := db.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating category: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary Delete a category
// @Description Delete a category; its posts lose the category but are kept
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Category deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Admin role required"
// @Failure 404 {object} map[string]string "error: Category not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /categories/{id} [delete]
func DeleteCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var category models.Category
	if err := db.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting category: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
