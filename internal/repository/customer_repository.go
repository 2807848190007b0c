package repository

import (
	"context"

	"inventory/internal/domain/model"
)

type CustomerRepository interface {
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	FindByID(ctx context.Context, id int64) (model.Customer, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c model.Category) (model.Category, error)
}
