package usecase

import (
	"context"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"go.uber.org/zap"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	log        *zap.Logger
}

func NewCategoryUsecase(categories repo.CategoryRepository, log *zap.Logger) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, log: log}
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, badRequest("name required")
	}

	c, err := u.categories.Create(ctx, model.Category{Name: name})
	if err != nil {
		u.log.Error("category store error", zap.Error(err))
		return 0, storeError(err)
	}
	return c.ID, nil
}
