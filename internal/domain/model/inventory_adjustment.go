package model

import "time"

type AdjustmentReason string

const (
	AdjustmentOrderCreated       AdjustmentReason = "ORDER_CREATED"
	AdjustmentOrderUpdateRestore AdjustmentReason = "ORDER_UPDATE_RESTORE"
	AdjustmentOrderUpdateDeduct  AdjustmentReason = "ORDER_UPDATE_DEDUCT"
	AdjustmentOrderDeleted       AdjustmentReason = "ORDER_DELETED"
)

// 在庫増減の履歴。注文操作と同じトランザクションで書く
type InventoryAdjustment struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64            `gorm:"not null;index" json:"product_id"`
	OrderID   int64            `gorm:"not null;index" json:"order_id"`
	Delta     int64            `gorm:"not null" json:"delta"`
	Reason    AdjustmentReason `gorm:"type:varchar(50);not null" json:"reason"`
	CreatedAt time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
}
