package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/services"
)

func CreateCustomTrip(s *services.CustomTripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustUser(c)
		if !ok {
			return
		}
		var input services.CustomTripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		created, err := s.Create(c.Request.Context(), user.ID, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Custom trip request submitted"))
	}
}

func ListMyCustomTrips(s *services.CustomTripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustUser(c)
		if !ok {
			return
		}
		requests, pagination, err := s.ListMine(c.Request.Context(), user.ID, listOptions(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(requests, pagination))
	}
}
