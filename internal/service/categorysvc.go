package service

import (
	"context"
	"strings"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type CategoriesStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	RenameCategory(ctx context.Context, id, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoriesService struct {
	Store CategoriesStore
}

func (s *CategoriesService) List(ctx context.Context) ([]domain.Category, error) {
	return s.Store.ListCategories(ctx)
}

func (s *CategoriesService) Get(ctx context.Context, id string) (domain.Category, error) {
	return s.Store.GetCategory(ctx, id)
}

func (s *CategoriesService) Create(ctx context.Context, name string) (domain.Category, error) {
	name, err := validCategoryName(name)
	if err != nil {
		return domain.Category{}, err
	}
	return s.Store.CreateCategory(ctx, name)
}

func (s *CategoriesService) Rename(ctx context.Context, id, name string) (domain.Category, error) {
	name, err := validCategoryName(name)
	if err != nil {
		return domain.Category{}, err
	}
	return s.Store.RenameCategory(ctx, id, name)
}

func (s *CategoriesService) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteCategory(ctx, id)
}

func validCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError(map[string]string{"name": "required"})
	}
	if len(name) > 100 {
		return "", domain.NewValidationError(map[string]string{"name": "must be at most 100 characters"})
	}
	return name, nil
}
