package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/services"
)

func ListCategories(s *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, pagination, err := s.List(c.Request.Context(), listOptions(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(categories, pagination))
	}
}

func GetCategory(s *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		category, err := s.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(category, ""))
	}
}

func CreateCategory(s *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		created, err := s.Create(c.Request.Context(), &category)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Category created successfully"))
	}
}

func UpdateCategory(s *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var input struct {
			Title string `json:"title" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		updated, err := s.Update(c.Request.Context(), id, input.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Category updated successfully"))
	}
}

func DeleteCategory(s *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Category deleted successfully"))
	}
}
