package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService struct {
	categories models.CategoryRepo
}

func NewCategoryService(categories models.CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

func (cs *CategoryService) List(ctx context.Context, opts models.ListOptions) ([]*models.Category, models.Pagination, error) {
	categories, total, err := cs.categories.List(ctx, opts.Filter(bson.M{}, "title"), opts)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal("failed to list categories", err)
	}
	return categories, opts.Paginate(total), nil
}

func (cs *CategoryService) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := cs.categories.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, apperr.Internal("failed to load category", err)
	}
	if category == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no category with id %s", id.Hex()))
	}
	return category, nil
}

func (cs *CategoryService) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := models.Validate.Struct(category); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	created, err := cs.categories.Create(ctx, category)
	if err != nil {
		return nil, apperr.Internal("failed to create category", err)
	}
	return created, nil
}

func (cs *CategoryService) Update(ctx context.Context, id primitive.ObjectID, title string) (*models.Category, error) {
	if len(title) < 3 || len(title) > 50 {
		return nil, apperr.Validation("category title must be between 3 and 50 characters")
	}

	category, err := cs.categories.Update(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":      title,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return nil, apperr.Internal("failed to update category", err)
	}
	if category == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no category with id %s", id.Hex()))
	}
	return category, nil
}

func (cs *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := cs.categories.Delete(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("failed to delete category", err)
	}
	if !deleted {
		return apperr.NotFound(fmt.Sprintf("no category with id %s", id.Hex()))
	}
	return nil
}
