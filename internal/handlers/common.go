package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/middleware"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/scope"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError renders a service error with the status and code carried by
// its kind. Unknown error types render as a plain 500.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), models.ErrorResponse(apperr.CodeOf(err), err.Error()))
}

func idParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "invalid "+name+" parameter"))
		return primitive.ObjectID{}, false
	}
	return id, true
}

func listOptions(c *gin.Context, filterable ...string) models.ListOptions {
	return models.ParseListOptions(c.Request.URL.Query(), filterable...)
}

func mustActor(c *gin.Context) (scope.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized", "authentication required"))
	}
	return actor, ok
}

func mustUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized", "authentication required"))
	}
	return user, ok
}
