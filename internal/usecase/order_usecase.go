package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// commit後の注文イベント送信先
type OrderEventPublisher interface {
	Publish(ctx context.Context, ev model.OrderEvent) error
}

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository // Tx外の読み取り用
	events OrderEventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	events OrderEventPublisher,
	log *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:     tx,
		orders: orders,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

type CreateOrderInput struct {
	CustomerID int64
	ProductID  int64
	Quantity   int64
}

type UpdateOrderInput struct {
	CustomerID int64
	ProductID  int64
	Quantity   int64
}

// 在庫を確認して減らし、注文を作る。
// 在庫が足りなければ何も書かない
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (orderID int64, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.CreateOrder", trace.WithAttributes(
		attribute.Int64("product.id", in.ProductID),
		attribute.Int64("order.quantity", in.Quantity),
	))
	defer func() { endSpan(span, err) }()

	if err := validateOrderInput(in.CustomerID, in.ProductID, in.Quantity); err != nil {
		return 0, err
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品をロックしてから在庫を見る
		if _, err := r.Products().LockByID(ctx, in.ProductID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return productNotFound()
			}
			return u.storeError("lock product", err)
		}

		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, in.ProductID, in.Quantity)
		if err != nil {
			return u.storeError("decrease stock", err)
		}
		if !ok {
			return insufficientStock()
		}

		id, err := r.Orders().Create(ctx, model.Order{
			CustomerID: in.CustomerID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
		})
		if err != nil {
			return u.storeError("create order", err)
		}

		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID: in.ProductID,
			OrderID:   id,
			Delta:     -in.Quantity,
			Reason:    model.AdjustmentOrderCreated,
		}); err != nil {
			return u.storeError("create adjustment", err)
		}

		orderID = id
		return nil
	})
	if err != nil {
		return 0, u.storeError("commit", err)
	}

	span.SetAttributes(attribute.Int64("order.id", orderID))
	u.publish(ctx, model.OrderEvent{
		Type:       model.OrderEventCreated,
		OrderID:    orderID,
		CustomerID: in.CustomerID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
	})
	return orderID, nil
}

// 旧注文の在庫を戻してから、新しい内容で在庫を確認・減算する。
// 同じ商品でも差分計算はしない（戻した後の在庫で判定する）
func (u *OrderUsecase) UpdateOrder(ctx context.Context, orderID int64, in UpdateOrderInput) (updated int64, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.UpdateOrder", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("product.id", in.ProductID),
		attribute.Int64("order.quantity", in.Quantity),
	))
	defer func() { endSpan(span, err) }()

	if orderID <= 0 {
		return 0, badRequest("invalid id")
	}
	if err := validateOrderInput(in.CustomerID, in.ProductID, in.Quantity); err != nil {
		return 0, err
	}

	var prev model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		old, err := r.Orders().LockByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound()
		}
		if err != nil {
			return u.storeError("lock order", err)
		}

		if err := u.lockProducts(ctx, r, old.ProductID, in.ProductID); err != nil {
			return err
		}

		//旧注文分を戻す
		if err := r.Inventory().IncreaseStock(ctx, old.ProductID, old.Quantity); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return productNotFound()
			}
			return u.storeError("restore stock", err)
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID: old.ProductID,
			OrderID:   orderID,
			Delta:     old.Quantity,
			Reason:    model.AdjustmentOrderUpdateRestore,
		}); err != nil {
			return u.storeError("create adjustment", err)
		}

		//戻した後の在庫で判定。足りなければrollbackで戻し分も消える
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, in.ProductID, in.Quantity)
		if err != nil {
			return u.storeError("decrease stock", err)
		}
		if !ok {
			return insufficientStock()
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID: in.ProductID,
			OrderID:   orderID,
			Delta:     -in.Quantity,
			Reason:    model.AdjustmentOrderUpdateDeduct,
		}); err != nil {
			return u.storeError("create adjustment", err)
		}

		n, err := r.Orders().Update(ctx, model.Order{
			ID:         orderID,
			CustomerID: in.CustomerID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
		})
		if err != nil {
			return u.storeError("update order", err)
		}

		prev = old
		updated = n
		return nil
	})
	if err != nil {
		return 0, u.storeError("commit", err)
	}

	u.publish(ctx, model.OrderEvent{
		Type:              model.OrderEventUpdated,
		OrderID:           orderID,
		CustomerID:        in.CustomerID,
		ProductID:         in.ProductID,
		Quantity:          in.Quantity,
		PreviousProductID: prev.ProductID,
		PreviousQuantity:  prev.Quantity,
	})
	return updated, nil
}

// 在庫を戻してから注文を消す
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) (deleted int64, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.DeleteOrder", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
	))
	defer func() { endSpan(span, err) }()

	if orderID <= 0 {
		return 0, badRequest("invalid id")
	}

	var prev model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().LockByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return orderNotFound()
		}
		if err != nil {
			return u.storeError("lock order", err)
		}

		if err := u.lockProducts(ctx, r, o.ProductID); err != nil {
			return err
		}

		if err := r.Inventory().IncreaseStock(ctx, o.ProductID, o.Quantity); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return productNotFound()
			}
			return u.storeError("restore stock", err)
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID: o.ProductID,
			OrderID:   orderID,
			Delta:     o.Quantity,
			Reason:    model.AdjustmentOrderDeleted,
		}); err != nil {
			return u.storeError("create adjustment", err)
		}

		n, err := r.Orders().Delete(ctx, orderID)
		if err != nil {
			return u.storeError("delete order", err)
		}

		prev = o
		deleted = n
		return nil
	})
	if err != nil {
		return 0, u.storeError("commit", err)
	}

	u.publish(ctx, model.OrderEvent{
		Type:              model.OrderEventDeleted,
		OrderID:           orderID,
		CustomerID:        prev.CustomerID,
		ProductID:         prev.ProductID,
		PreviousProductID: prev.ProductID,
		PreviousQuantity:  prev.Quantity,
	})
	return deleted, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, badRequest("invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, orderNotFound()
	}
	if err != nil {
		return model.Order{}, u.storeError("find order", err)
	}
	return o, nil
}

func validateOrderInput(customerID, productID, quantity int64) error {
	if customerID <= 0 {
		return badRequest("invalid customer_id")
	}
	if productID <= 0 {
		return badRequest("invalid product_id")
	}
	if quantity <= 0 {
		return badRequest("quantity must be > 0")
	}
	return nil
}

// デッドロックしないようにID昇順でロックする
func (u *OrderUsecase) lockProducts(ctx context.Context, r repo.TxRepos, ids ...int64) error {
	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	for _, id := range uniq {
		if _, err := r.Products().LockByID(ctx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return productNotFound()
			}
			return u.storeError("lock product", err)
		}
	}
	return nil
}

func (u *OrderUsecase) storeError(op string, err error) error {
	if he, ok := AsHTTPError(err); ok {
		return he
	}
	out := storeError(err)
	if he, ok := AsHTTPError(out); ok && he.Status == http.StatusInternalServerError {
		u.log.Error("order store error", zap.String("op", op), zap.Error(err))
	}
	return out
}

// 送信失敗はログだけ。注文はcommit済み
func (u *OrderUsecase) publish(ctx context.Context, ev model.OrderEvent) {
	ev.OccurredAt = u.now()
	if err := u.events.Publish(ctx, ev); err != nil {
		u.log.Warn("failed to publish order event",
			zap.String("type", string(ev.Type)),
			zap.Int64("order_id", ev.OrderID),
			zap.Error(err),
		)
	}
}
