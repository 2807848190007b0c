package repository

import (
	"context"
	"errors"

	"inventory/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")

	// unique / foreign key などDB制約で弾かれた
	ErrConstraintViolation = errors.New("constraint violation")
)

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// 行ロック付きで取得（Tx内で使う）
	LockByID(ctx context.Context, id int64) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
}
