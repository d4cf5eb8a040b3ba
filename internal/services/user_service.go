package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/helpers"
	"github.com/tripta-app/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users     models.UserRepo
	companies models.CompanyRepo
	trips     models.TripRepo
	logger    *slog.Logger
}

func NewUserService(users models.UserRepo, companies models.CompanyRepo, trips models.TripRepo, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		companies: companies,
		trips:     trips,
		logger:    logger,
	}
}

func (us *UserService) List(ctx context.Context, opts models.ListOptions) ([]*models.User, models.Pagination, error) {
	users, total, err := us.users.List(ctx, opts.Filter(bson.M{}, "name", "email"), opts)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal("failed to list users", err)
	}
	return users, opts.Paginate(total), nil
}

func (us *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := us.users.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no user with id %s", id.Hex()))
	}
	return user, nil
}

type CreateUserInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    string      `json:"phone"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role"`
	Company  string      `json:"company"`
}

func (us *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if !input.Role.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown role %q", input.Role))
	}

	companyID, err := us.resolveCompany(ctx, input.Role, input.Company)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  string(hash),
		Role:      input.Role,
		Company:   companyID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := us.users.Create(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	return created, nil
}

// resolveCompany enforces the role/company invariant: company-scoped roles
// must reference an existing company, other roles carry none.
func (us *UserService) resolveCompany(ctx context.Context, role models.Role, companyHex string) (primitive.ObjectID, error) {
	if !role.IsCompanyScoped() {
		return primitive.NilObjectID, nil
	}
	if companyHex == "" {
		return primitive.NilObjectID, apperr.Validation(fmt.Sprintf("role %s requires a company", role))
	}
	companyID, err := primitive.ObjectIDFromHex(companyHex)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid company id")
	}
	company, err := us.companies.FindOne(ctx, bson.M{"_id": companyID})
	if err != nil {
		return primitive.NilObjectID, apperr.Internal("failed to load company", err)
	}
	if company == nil || company.Status == models.CompanyBlocked {
		return primitive.NilObjectID, apperr.Validation("company does not exist or is blocked")
	}
	return companyID, nil
}

type UpdateUserInput struct {
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Phone  string      `json:"phone"`
	Role   models.Role `json:"role"`
	Active *bool       `json:"active"`
}

func (us *UserService) Update(ctx context.Context, id primitive.ObjectID, input UpdateUserInput) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		set["email"] = input.Email
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if input.Role != "" {
		if !input.Role.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("unknown role %q", input.Role))
		}
		set["role"] = input.Role
	}
	if input.Active != nil {
		set["active"] = *input.Active
	}

	user, err := us.users.Update(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, apperr.Internal("failed to update user", err)
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no user with id %s", id.Hex()))
	}
	return user, nil
}

func (us *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, newPassword string) (*models.User, error) {
	if !helpers.IsPasswordStrong(newPassword) {
		return nil, apperr.Validation("password must be at least 8 characters with upper, lower and digit")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user, err := us.users.Update(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":            string(hash),
		"password_changed_at": time.Now(),
		"updated_at":          time.Now(),
	}})
	if err != nil {
		return nil, apperr.Internal("failed to change password", err)
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no user with id %s", id.Hex()))
	}
	return user, nil
}

func (us *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := us.users.Delete(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("failed to delete user", err)
	}
	if !deleted {
		return apperr.NotFound(fmt.Sprintf("no user with id %s", id.Hex()))
	}
	return nil
}

type UpdateMeInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateMe changes profile data only; role and password have their own paths.
func (us *UserService) UpdateMe(ctx context.Context, id primitive.ObjectID, input UpdateMeInput) (*models.User, error) {
	return us.Update(ctx, id, UpdateUserInput{Name: input.Name, Email: input.Email, Phone: input.Phone})
}

// DeactivateMe soft-deletes the caller's own account.
func (us *UserService) DeactivateMe(ctx context.Context, id primitive.ObjectID) error {
	user, err := us.users.Update(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return apperr.Internal("failed to deactivate user", err)
	}
	if user == nil {
		return apperr.NotFound(fmt.Sprintf("no user with id %s", id.Hex()))
	}
	return nil
}

func (us *UserService) AddToWishlist(ctx context.Context, userID, tripID primitive.ObjectID) (*models.User, error) {
	trip, err := us.trips.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		return nil, apperr.Internal("failed to load trip", err)
	}
	if trip == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no trip with id %s", tripID.Hex()))
	}

	user, err := us.users.AddToWishlist(ctx, userID, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to update wishlist", err)
	}
	return user, nil
}

func (us *UserService) RemoveFromWishlist(ctx context.Context, userID, tripID primitive.ObjectID) (*models.User, error) {
	user, err := us.users.RemoveFromWishlist(ctx, userID, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to update wishlist", err)
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no user with id %s", userID.Hex()))
	}
	return user, nil
}

func (us *UserService) Wishlist(ctx context.Context, userID primitive.ObjectID) ([]*models.Trip, error) {
	user, err := us.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Wishlist) == 0 {
		return []*models.Trip{}, nil
	}

	trips, _, err := us.trips.List(ctx, bson.M{"_id": bson.M{"$in": user.Wishlist}}, models.ListOptions{
		Page:  1,
		Limit: models.MaxPageSize,
	})
	if err != nil {
		return nil, apperr.Internal("failed to load wishlist trips", err)
	}
	return trips, nil
}
