package usecase

import (
	"context"
	"errors"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	log           *zap.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	log *zap.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		log:           log,
	}
}

// price は numeric(12,2) に入る範囲まで
var maxPrice = decimal.New(1, 10)

// Price/QuantityInStock は未指定(nil)を0と区別する
type CreateProductInput struct {
	Name            string
	Price           *decimal.Decimal
	QuantityInStock *int64
	CategoryID      *int64
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (int64, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, badRequest("name required")
	}
	if in.Price == nil {
		return 0, badRequest("price required")
	}
	if in.Price.IsNegative() {
		return 0, badRequest("price must be >= 0")
	}
	if in.Price.GreaterThanOrEqual(maxPrice) {
		return 0, badRequest("price too large")
	}
	if in.QuantityInStock == nil {
		return 0, badRequest("quantity_in_stock required")
	}
	if *in.QuantityInStock < 0 {
		return 0, badRequest("quantity_in_stock must be >= 0")
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return 0, badRequest("invalid category_id")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:            strings.TrimSpace(in.Name),
		Price:           *in.Price,
		QuantityInStock: *in.QuantityInStock,
		CategoryID:      in.CategoryID,
	})
	if err != nil {
		return 0, u.storeError("create product", err)
	}
	return p.ID, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, badRequest("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, productNotFound()
	}
	if err != nil {
		return model.Product{}, u.storeError("find product", err)
	}
	return p, nil
}

// 商品の在庫増減履歴
func (u *ProductUsecase) ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error) {
	if _, err := u.GetProduct(ctx, productID); err != nil {
		return []model.InventoryAdjustment{}, err
	}

	items, err := u.inventoryRepo.ListAdjustmentsByProductID(ctx, productID)
	if err != nil {
		return []model.InventoryAdjustment{}, u.storeError("list adjustments", err)
	}
	return items, nil
}

func (u *ProductUsecase) storeError(op string, err error) error {
	out := storeError(err)
	if errors.Is(out, ErrStore) {
		u.log.Error("product store error", zap.String("op", op), zap.Error(err))
	}
	return out
}
