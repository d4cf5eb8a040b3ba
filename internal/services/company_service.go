package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/helpers"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/scope"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type CompanyService struct {
	companies models.CompanyRepo
	users     models.UserRepo
	mailer    Mailer
	cld       *cloudinary.Cloudinary
	logger    *slog.Logger
}

func NewCompanyService(companies models.CompanyRepo, users models.UserRepo, mailer Mailer, cld *cloudinary.Cloudinary, logger *slog.Logger) *CompanyService {
	return &CompanyService{
		companies: companies,
		users:     users,
		mailer:    mailer,
		cld:       cld,
		logger:    logger,
	}
}

// requireCompanyAccess rejects company admins reaching outside their own
// company; super-admins pass.
func requireCompanyAccess(actor scope.Actor, companyID primitive.ObjectID) error {
	if actor.IsSuperAdmin() {
		return nil
	}
	if actor.Role.IsCompanyScoped() && actor.Company == companyID {
		return nil
	}
	return apperr.Authorization("access outside your company")
}

func (cs *CompanyService) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := models.Validate.Struct(company); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	company.Slug = helpers.GenerateSlug(company.Name)
	if company.DefaultCurrency == "" {
		company.DefaultCurrency = "USD"
	}
	if company.Status == "" {
		company.Status = models.CompanyPending
	}
	company.Prefs = models.DefaultNotificationPrefs()
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	created, err := cs.companies.Create(ctx, company)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict(fmt.Sprintf("company slug %q already exists", company.Slug))
		}
		return nil, apperr.Internal("failed to create company", err)
	}
	return created, nil
}

// List shows every company to super-admins only; company-scoped callers see
// just their own company, contact details and prefs are not public.
func (cs *CompanyService) List(ctx context.Context, actor scope.Actor, opts models.ListOptions) ([]*models.Company, models.Pagination, error) {
	filter := opts.Filter(bson.M{}, "name", "slug")
	switch {
	case actor.IsSuperAdmin():
	case actor.Role.IsCompanyScoped():
		filter["_id"] = actor.Company
	default:
		return nil, models.Pagination{}, apperr.Authorization("you are not allowed to list companies")
	}

	companies, total, err := cs.companies.List(ctx, filter, opts)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal("failed to list companies", err)
	}
	return companies, opts.Paginate(total), nil
}

func (cs *CompanyService) Get(ctx context.Context, actor scope.Actor, id primitive.ObjectID) (*models.Company, error) {
	if err := requireCompanyAccess(actor, id); err != nil {
		return nil, err
	}

	company, err := cs.companies.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, apperr.Internal("failed to load company", err)
	}
	if company == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no company with id %s", id.Hex()))
	}
	return company, nil
}

var companyUpdatableFields = map[string]bool{
	"name": true, "about": true, "default_currency": true,
	"contact": true, "notification_prefs": true, "status": true,
}

func (cs *CompanyService) Update(ctx context.Context, actor scope.Actor, id primitive.ObjectID, fields map[string]any) (*models.Company, error) {
	if err := requireCompanyAccess(actor, id); err != nil {
		return nil, err
	}
	// Only the platform changes a company's status.
	if _, ok := fields["status"]; ok && !actor.IsSuperAdmin() {
		return nil, apperr.Authorization("only super-admins can change company status")
	}

	set := bson.M{}
	for key, value := range fields {
		if !companyUpdatableFields[key] {
			return nil, apperr.Validation(fmt.Sprintf("field %q cannot be updated", key))
		}
		set[key] = value
	}
	if len(set) == 0 {
		return nil, apperr.Validation("no updatable fields provided")
	}
	if name, ok := set["name"].(string); ok {
		set["slug"] = helpers.GenerateSlug(name)
	}
	set["updated_at"] = time.Now()

	company, err := cs.companies.Update(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, apperr.Internal("failed to update company", err)
	}
	if company == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no company with id %s", id.Hex()))
	}
	return company, nil
}

func (cs *CompanyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := cs.companies.Delete(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("failed to delete company", err)
	}
	if !deleted {
		return apperr.NotFound(fmt.Sprintf("no company with id %s", id.Hex()))
	}
	return nil
}

func (cs *CompanyService) UploadLogo(ctx context.Context, actor scope.Actor, id primitive.ObjectID, file multipart.File) (string, error) {
	if err := requireCompanyAccess(actor, id); err != nil {
		return "", err
	}

	url, err := helpers.UploadImage(ctx, cs.cld, file, helpers.CompaniesFolder)
	if err != nil {
		return "", apperr.Upstream("logo upload failed", err)
	}

	company, err := cs.companies.Update(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"logo_url":   url,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return "", apperr.Internal("failed to store logo url", err)
	}
	if company == nil {
		return "", apperr.NotFound(fmt.Sprintf("no company with id %s", id.Hex()))
	}
	return url, nil
}

func (cs *CompanyService) SubAccounts(ctx context.Context, actor scope.Actor, id primitive.ObjectID, opts models.ListOptions) ([]*models.User, models.Pagination, error) {
	if err := requireCompanyAccess(actor, id); err != nil {
		return nil, models.Pagination{}, err
	}

	users, total, err := cs.users.List(ctx, bson.M{"company": id}, opts)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal("failed to list sub-accounts", err)
	}
	return users, opts.Paginate(total), nil
}

type InviteInput struct {
	Name  string      `json:"name" validate:"required"`
	Email string      `json:"email" validate:"required,email"`
	Role  models.Role `json:"role"`
}

// Invite creates a company sub-account with a temporary password and emails
// it to the invitee.
func (cs *CompanyService) Invite(ctx context.Context, actor scope.Actor, id primitive.ObjectID, input InviteInput) (*models.User, error) {
	if err := requireCompanyAccess(actor, id); err != nil {
		return nil, err
	}
	if err := models.Validate.Struct(input); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if input.Role == "" {
		input.Role = models.RoleCompanyUser
	}
	if !input.Role.IsCompanyScoped() {
		return nil, apperr.Validation("sub-accounts must have a company-scoped role")
	}

	tempPassword := helpers.RandomPassword(12)
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	now := time.Now()
	user, err := cs.users.Create(ctx, &models.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  string(hash),
		Role:      input.Role,
		Company:   id,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("user already exists")
		}
		return nil, apperr.Internal("failed to create sub-account", err)
	}

	go func() {
		body := fmt.Sprintf("Hi %s,\n\nYou have been invited. Your temporary password is %s. Please log in and reset it.", user.Name, tempPassword)
		if err := cs.mailer.Send(user.Email, "You've been invited", body); err != nil {
			cs.logger.Error("invite email failed", "email", user.Email, "error", err)
		}
	}()

	return user, nil
}

func (cs *CompanyService) UpdateSubAccountRole(ctx context.Context, actor scope.Actor, companyID, userID primitive.ObjectID, role models.Role) (*models.User, error) {
	if err := requireCompanyAccess(actor, companyID); err != nil {
		return nil, err
	}
	if !role.IsCompanyScoped() {
		return nil, apperr.Validation("sub-accounts must have a company-scoped role")
	}

	user, err := cs.users.Update(ctx, bson.M{"_id": userID, "company": companyID}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return nil, apperr.Internal("failed to update sub-account", err)
	}
	if user == nil {
		return nil, apperr.NotFound("sub-account not found")
	}
	return user, nil
}

func (cs *CompanyService) DeleteSubAccount(ctx context.Context, actor scope.Actor, companyID, userID primitive.ObjectID) error {
	if err := requireCompanyAccess(actor, companyID); err != nil {
		return err
	}

	deleted, err := cs.users.Delete(ctx, bson.M{"_id": userID, "company": companyID})
	if err != nil {
		return apperr.Internal("failed to delete sub-account", err)
	}
	if !deleted {
		return apperr.NotFound("sub-account not found")
	}
	return nil
}
