package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tripta-app/server/internal/helpers"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/services"
)

func ListTrips(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := listOptions(c, "category", "company", "destination", "trip_type", "difficulty")
		trips, pagination, err := t.List(c.Request.Context(), opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(trips, pagination))
	}
}

func GetTrip(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		trip, err := t.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(trip, ""))
	}
}

func SearchTrips(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyword := c.Query("q")
		var date *time.Time
		if raw := c.Query("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "date must be YYYY-MM-DD"))
				return
			}
			date = &parsed
		}

		trips, pagination, err := t.Search(c.Request.Context(), keyword, date, listOptions(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(trips, pagination))
	}
}

func CheckTripAvailability(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		date, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "date must be YYYY-MM-DD"))
			return
		}
		spots, err := strconv.Atoi(c.DefaultQuery("spots", "1"))
		if err != nil || spots < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "spots must be a positive integer"))
			return
		}

		check, err := t.CheckAvailability(c.Request.Context(), id, date, spots)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(check, ""))
	}
}

func CreateTrip(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		var trip models.Trip
		if err := c.ShouldBindJSON(&trip); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		created, err := t.Create(c.Request.Context(), actor, &trip)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Trip created successfully"))
	}
}

func UpdateTrip(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		updated, err := t.Update(c.Request.Context(), actor, id, fields)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Trip updated successfully"))
	}
}

func DeleteTrip(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := t.Delete(c.Request.Context(), actor, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Trip deleted successfully"))
	}
}

func AddTripReview(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustUser(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var input struct {
			Rating  float64 `json:"rating" binding:"required"`
			Comment string  `json:"comment"`
			Country string  `json:"country"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		updated, err := t.AddReview(c.Request.Context(), user.Name, id, input.Rating, input.Comment, input.Country)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(updated, "Review added successfully"))
	}
}

func UploadTripImages(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "expected multipart form with images"))
			return
		}
		headers := form.File["images"]
		if len(headers) == 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "no images provided"))
			return
		}

		var files []multipart.File
		for _, header := range headers {
			if !helpers.IsImageUpload(header) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "only image uploads are accepted"))
				return
			}
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "failed to read uploaded file"))
				return
			}
			defer file.Close()
			files = append(files, file)
		}

		updated, err := t.UploadImages(c.Request.Context(), actor, id, files)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Images uploaded successfully"))
	}
}
