package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/services"
)

func Signup(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.SignupInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}

		user, token, err := a.Signup(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{
			"user":  user,
			"token": token,
		}, "Account created successfully"))
	}
}

func Login(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}

		user, token, err := a.Login(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"user":  user,
			"token": token,
		}, "Logged in successfully"))
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Stateless tokens; clearing the cookie is all there is to do
		// server-side.
		c.SetCookie("access_token", "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

func ForgotPassword(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}

		if err := a.ForgotPassword(c.Request.Context(), input.Email); err != nil {
			respondError(c, err)
			return
		}
		// The same answer whether or not the account exists.
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "If that account exists, a reset code has been sent"))
	}
}

func VerifyResetCode(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
			Code  string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}

		if err := a.VerifyResetCode(c.Request.Context(), input.Email, input.Code); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Reset code verified"))
	}
}

func ResetPassword(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}

		token, err := a.ResetPassword(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"token": token}, "Password reset successfully"))
	}
}
