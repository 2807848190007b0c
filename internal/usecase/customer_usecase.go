package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"go.uber.org/zap"
)

type CustomerUsecase struct {
	customers repo.CustomerRepository
	log       *zap.Logger
}

func NewCustomerUsecase(customers repo.CustomerRepository, log *zap.Logger) *CustomerUsecase {
	return &CustomerUsecase{customers: customers, log: log}
}

type CreateCustomerInput struct {
	Name  string
	Email string
}

func (u *CustomerUsecase) CreateCustomer(ctx context.Context, in CreateCustomerInput) (int64, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	// 必須チェック
	if name == "" {
		return 0, badRequest("name required")
	}
	if email == "" {
		return 0, badRequest("email required")
	}

	c, err := u.customers.Create(ctx, model.Customer{Name: name, Email: email})
	if err != nil {
		// emailはunique
		if errors.Is(err, repo.ErrConstraintViolation) {
			return 0, NewHTTPError(http.StatusBadRequest, "email already used", ErrConstraintViolation)
		}
		u.log.Error("customer store error", zap.String("op", "create customer"), zap.Error(err))
		return 0, storeError(err)
	}
	return c.ID, nil
}

func (u *CustomerUsecase) GetCustomer(ctx context.Context, customerID int64) (model.Customer, error) {
	if customerID <= 0 {
		return model.Customer{}, badRequest("invalid customer id")
	}

	c, err := u.customers.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "Customer not found", ErrNotFound)
	}
	if err != nil {
		u.log.Error("customer store error", zap.String("op", "find customer"), zap.Error(err))
		return model.Customer{}, storeError(err)
	}
	return c, nil
}
