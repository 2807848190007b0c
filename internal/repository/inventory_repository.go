package repository

import (
	"context"

	"inventory/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（注文の更新・削除）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 増減履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error

	// 商品ごとの増減履歴（古い順）
	ListAdjustmentsByProductID(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error)
}
