package model

import "time"

type OrderEventType string

const (
	OrderEventCreated OrderEventType = "order.created"
	OrderEventUpdated OrderEventType = "order.updated"
	OrderEventDeleted OrderEventType = "order.deleted"
)

// commit後に外部へ流す注文イベント
type OrderEvent struct {
	Type       OrderEventType `json:"type"`
	OrderID    int64          `json:"order_id"`
	CustomerID int64          `json:"customer_id"`
	ProductID  int64          `json:"product_id"`
	Quantity   int64          `json:"quantity"`

	// 更新・削除のときだけ入る
	PreviousProductID int64 `json:"previous_product_id,omitempty"`
	PreviousQuantity  int64 `json:"previous_quantity,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}
