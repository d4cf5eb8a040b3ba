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
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost      = 12
	resetCodeExpiry = 10 * time.Minute
)

type AuthService struct {
	users  models.UserRepo
	mailer Mailer
	logger *slog.Logger

	jwtSecret    string
	jwtExpiresIn time.Duration
}

func NewAuthService(users models.UserRepo, mailer Mailer, logger *slog.Logger, jwtSecret string, jwtExpiresIn time.Duration) *AuthService {
	return &AuthService{
		users:        users,
		mailer:       mailer,
		logger:       logger,
		jwtSecret:    jwtSecret,
		jwtExpiresIn: jwtExpiresIn,
	}
}

type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
}

func (as *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, string, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, "", apperr.Validation(err.Error())
	}
	if !helpers.IsPasswordStrong(input.Password) {
		return nil, "", apperr.Validation("password must be at least 8 characters with upper, lower and digit")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", apperr.Internal("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  string(hash),
		Role:      models.RoleUser,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := as.users.Create(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", apperr.Conflict("email already in use")
		}
		return nil, "", apperr.Internal("failed to create user", err)
	}

	token, err := as.IssueToken(created)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

func (as *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := as.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.Internal("failed to look up user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", apperr.Authentication("email or password incorrect")
	}
	if !user.Active {
		return nil, "", apperr.Authentication("account is deactivated")
	}

	token, err := as.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (as *AuthService) IssueToken(user *models.User) (string, error) {
	company := ""
	if !user.Company.IsZero() {
		company = user.Company.Hex()
	}
	token, err := helpers.SignToken(user.ID.Hex(), string(user.Role), company, as.jwtSecret, as.jwtExpiresIn)
	if err != nil {
		return "", apperr.Internal("failed to sign token", err)
	}
	return token, nil
}

func (as *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := as.users.FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		// Answer the same either way so the endpoint does not reveal
		// which emails have accounts.
		as.logger.Info("password reset requested for unknown email", "email", email)
		return nil
	}

	code := helpers.ResetCode()
	expires := time.Now().Add(resetCodeExpiry)
	_, err = as.users.Update(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"password_reset_code":     code,
		"password_reset_expires":  expires,
		"password_reset_verified": false,
	}})
	if err != nil {
		return apperr.Internal("failed to store reset code", err)
	}

	go func() {
		body := fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in 10 minutes.", user.Name, code)
		if err := as.mailer.Send(user.Email, "Your password reset code", body); err != nil {
			as.logger.Error("reset code email failed", "email", user.Email, "error", err)
		}
	}()

	return nil
}

func (as *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	user, err := as.users.FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("failed to look up user", err)
	}
	if user == nil || user.PasswordResetCode == "" || user.PasswordResetCode != code {
		return apperr.Validation("reset code invalid")
	}
	if user.PasswordResetExpires == nil || time.Now().After(*user.PasswordResetExpires) {
		return apperr.Validation("reset code expired")
	}

	_, err = as.users.Update(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"password_reset_verified": true,
	}})
	if err != nil {
		return apperr.Internal("failed to verify reset code", err)
	}
	return nil
}

func (as *AuthService) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	user, err := as.users.FindByEmail(ctx, email)
	if err != nil {
		return "", apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		return "", apperr.NotFound(fmt.Sprintf("no user with email %s", email))
	}
	if !user.PasswordResetVerified {
		return "", apperr.Validation("reset code not verified")
	}
	if !helpers.IsPasswordStrong(newPassword) {
		return "", apperr.Validation("password must be at least 8 characters with upper, lower and digit")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err)
	}

	updated, err := as.users.Update(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"password":            string(hash),
			"password_changed_at": time.Now(),
		},
		"$unset": bson.M{
			"password_reset_code":     "",
			"password_reset_expires":  "",
			"password_reset_verified": "",
		},
	})
	if err != nil {
		return "", apperr.Internal("failed to reset password", err)
	}

	return as.IssueToken(updated)
}
