package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tripta-app/server/internal/helpers"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/scope"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActorKey = "actor"
	UserKey  = "current_user"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling for errors handlers left
// on the gin context instead of rendering themselves.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, models.ErrorResponse("internal", "Internal server error"))
			}
		}
	}
}

// AuthMiddleware validates the bearer token, loads the account behind it and
// stores both the user and the derived scope actor on the context. Tokens
// issued before the user's last password change are rejected.
func AuthMiddleware(users models.UserRepo, jwtSecret string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		claims, err := helpers.ValidateToken(token, jwtSecret)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			unauthorized(c, "invalid token subject")
			return
		}

		user, err := users.FindOne(c.Request.Context(), bson.M{"_id": userID})
		if err != nil {
			logger.Error("failed to load user for token", "user_id", claims.Subject, "error", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("internal", "failed to authenticate request"))
			c.Abort()
			return
		}
		if user == nil || !user.Active {
			unauthorized(c, "account no longer active")
			return
		}
		if claims.IssuedAt != nil && user.TokenInvalidatedAt(claims.IssuedAt.Time) {
			unauthorized(c, "token issued before last password change")
			return
		}

		actor := scope.Actor{ID: user.ID, Role: user.Role, Company: user.Company}
		c.Set(ActorKey, actor)
		c.Set(UserKey, user)
		c.Next()
	}
}

// RequireRoles gates a route group to the named roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			unauthorized(c, "authentication required")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, models.ErrorResponse("forbidden", "you do not have permission to perform this action"))
		c.Abort()
	}
}

func CurrentActor(c *gin.Context) (scope.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return scope.Actor{}, false
	}
	actor, ok := value.(scope.Actor)
	return actor, ok
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if token, err := c.Cookie("access_token"); err == nil {
		return token
	}
	return ""
}

func unauthorized(c *gin.Context, reason string) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized", reason))
	c.Abort()
}
