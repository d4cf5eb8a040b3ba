package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripta-app/server/internal/helpers"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/services"
)

func ListCompanies(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		opts := listOptions(c, "status")
		companies, pagination, err := s.List(c.Request.Context(), actor, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(companies, pagination))
	}
}

func GetCompany(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		company, err := s.Get(c.Request.Context(), actor, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(company, ""))
	}
}

func CreateCompany(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var company models.Company
		if err := c.ShouldBindJSON(&company); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		created, err := s.Create(c.Request.Context(), &company)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Company created successfully"))
	}
}

func UpdateCompany(s *services.CompanyService) gin.HandlerFunc {
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
		updated, err := s.Update(c.Request.Context(), actor, id, fields)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Company updated successfully"))
	}
}

func DeleteCompany(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Company deleted successfully"))
	}
}

func UploadCompanyLogo(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		header, err := c.FormFile("logo")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "expected a logo file"))
			return
		}
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

		url, err := s.UploadLogo(c.Request.Context(), actor, id, file)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"logo": url}, "Logo uploaded successfully"))
	}
}

func ListSubAccounts(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		users, pagination, err := s.SubAccounts(c.Request.Context(), actor, id, listOptions(c, "role", "active"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(users, pagination))
	}
}

func InviteSubAccount(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var input services.InviteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		user, err := s.Invite(c.Request.Context(), actor, id, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(user, "Invitation sent"))
	}
}

func UpdateSubAccountRole(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		companyID, ok := idParam(c, "id")
		if !ok {
			return
		}
		userID, ok := idParam(c, "userId")
		if !ok {
			return
		}
		var input struct {
			Role models.Role `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}
		user, err := s.UpdateSubAccountRole(c.Request.Context(), actor, companyID, userID, input.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "Role updated successfully"))
	}
}

func DeleteSubAccount(s *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		companyID, ok := idParam(c, "id")
		if !ok {
			return
		}
		userID, ok := idParam(c, "userId")
		if !ok {
			return
		}
		if err := s.DeleteSubAccount(c.Request.Context(), actor, companyID, userID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Sub-account removed"))
	}
}
