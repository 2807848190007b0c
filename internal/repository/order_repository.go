package repository

import (
	"context"

	"inventory/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 行ロック付きで取得（Tx内で使う）
	LockByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	// customer/product/quantityを上書きして更新件数を返す
	Update(ctx context.Context, order model.Order) (int64, error)
	Delete(ctx context.Context, orderID int64) (int64, error)
}
