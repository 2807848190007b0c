package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"inventory/internal/config"
	"inventory/internal/handler"
	"inventory/internal/infra/db"
	"inventory/internal/infra/messaging"
	infraRepo "inventory/internal/infra/repository"
	"inventory/internal/server"
	"inventory/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// =====================
// レスポンス確認用
// =====================

type errorBody struct {
	Error string `json:"error"`
}

type productCreated struct {
	ProductID int64 `json:"product_id"`
}

type customerCreated struct {
	CustomerID int64 `json:"customer_id"`
}

type categoryCreated struct {
	CategoryID int64 `json:"category_id"`
}

type orderCreated struct {
	OrderID int64  `json:"order_id"`
	Message string `json:"message"`
}

type orderUpdated struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

type orderDeleted struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type productBody struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	QuantityInStock int64  `json:"quantity_in_stock"`
}

type adjustmentBody struct {
	OrderID int64  `json:"order_id"`
	Delta   int64  `json:"delta"`
	Reason  string `json:"reason"`
}

// sqliteで全ルートを組んだechoを返す
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	gdb, err := db.Connect(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zaptest.NewLogger(t)
	productRepo := infraRepo.NewProductGormRepository(gdb)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gdb)

	return server.New(log, server.Handlers{
		Products:   handler.NewProductHandler(usecase.NewProductUsecase(productRepo, inventoryRepo, log)),
		Customers:  handler.NewCustomerHandler(usecase.NewCustomerUsecase(infraRepo.NewCustomerGormRepository(gdb), log)),
		Categories: handler.NewCategoryHandler(usecase.NewCategoryUsecase(infraRepo.NewCategoryGormRepository(gdb), log)),
		Orders:     handler.NewOrderHandler(usecase.NewOrderUsecase(infraRepo.NewTxManagerGorm(gdb), infraRepo.NewOrderGormRepository(gdb), messaging.NoopOrderPublisher{}, log)),
	})
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body=%s", rec.Body.String())
	return v
}

func createProduct(t *testing.T, e *echo.Echo, stock int64) int64 {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/products",
		`{"name":"Widget","price":9.99,"quantity_in_stock":`+strconv.FormatInt(stock, 10)+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[productCreated](t, rec).ProductID
}

func createCustomer(t *testing.T, e *echo.Echo, email string) int64 {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/customers", `{"name":"Alice","email":"`+email+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[customerCreated](t, rec).CustomerID
}

func orderBody(customerID, productID, qty int64) string {
	return `{"customer_id":` + strconv.FormatInt(customerID, 10) +
		`,"product_id":` + strconv.FormatInt(productID, 10) +
		`,"quantity":` + strconv.FormatInt(qty, 10) + `}`
}

func productStock(t *testing.T, e *echo.Echo, id int64) int64 {
	t.Helper()
	rec := doJSON(t, e, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[productBody](t, rec).QuantityInStock
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestProducts(t *testing.T) {
	e := newTestServer(t)

	t.Run("create and get", func(t *testing.T) {
		id := createProduct(t, e, 10)
		assert.NotZero(t, id)

		rec := doJSON(t, e, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), "")
		require.Equal(t, http.StatusOK, rec.Code)
		p := decode[productBody](t, rec)
		assert.Equal(t, "Widget", p.Name)
		assert.Equal(t, "9.99", p.Price)
		assert.Equal(t, int64(10), p.QuantityInStock)
	})

	t.Run("with category", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/categories", `{"name":"Tools"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		catID := decode[categoryCreated](t, rec).CategoryID

		rec = doJSON(t, e, http.MethodPost, "/products",
			`{"name":"Hammer","price":"12.50","quantity_in_stock":3,"category_id":`+strconv.FormatInt(catID, 10)+`}`)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			body    string
			message string
		}{
			{`{"name":"","price":1,"quantity_in_stock":1}`, "name required"},
			{`{"name":"NoPrice","quantity_in_stock":5}`, "price required"},
			{`{"name":"NullPrice","price":null,"quantity_in_stock":5}`, "price required"},
			{`{"name":"NoStock","price":1.5}`, "quantity_in_stock required"},
			{`{"name":"x","price":-1,"quantity_in_stock":1}`, "price must be >= 0"},
			{`{"name":"x","price":1e20,"quantity_in_stock":1}`, "price too large"},
			{`{"name":"x","price":1,"quantity_in_stock":-1}`, "quantity_in_stock must be >= 0"},
			{`{"name":`, "invalid body"},
		}
		for _, tc := range cases {
			rec := doJSON(t, e, http.MethodPost, "/products", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
			assert.Equal(t, tc.message, decode[errorBody](t, rec).Error, tc.body)
		}
	})

	t.Run("zero stock is allowed", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/products", `{"name":"Empty","price":0,"quantity_in_stock":0}`)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/products/9999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Product not found", decode[errorBody](t, rec).Error)

		rec = doJSON(t, e, http.MethodGet, "/products/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCustomers(t *testing.T) {
	e := newTestServer(t)

	id := createCustomer(t, e, "alice@example.com")

	rec := doJSON(t, e, http.MethodGet, "/customers/"+strconv.FormatInt(id, 10), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// 同じemailは400
	rec = doJSON(t, e, http.MethodPost, "/customers", `{"name":"Alice","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already used", decode[errorBody](t, rec).Error)

	rec = doJSON(t, e, http.MethodPost, "/customers", `{"name":"NoMail"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/customers/9999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrders_Lifecycle(t *testing.T) {
	e := newTestServer(t)
	productID := createProduct(t, e, 10)
	customerID := createCustomer(t, e, "bob@example.com")

	rec := doJSON(t, e, http.MethodPost, "/orders", orderBody(customerID, productID, 4))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[orderCreated](t, rec)
	assert.Equal(t, "Order created", created.Message)
	assert.Equal(t, int64(6), productStock(t, e, productID))

	orderPath := "/orders/" + strconv.FormatInt(created.OrderID, 10)

	rec = doJSON(t, e, http.MethodGet, orderPath, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPut, orderPath, orderBody(customerID, productID, 9))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, orderUpdated{Message: "Order updated", Updated: 1}, decode[orderUpdated](t, rec))
	assert.Equal(t, int64(1), productStock(t, e, productID))

	rec = doJSON(t, e, http.MethodDelete, orderPath, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, orderDeleted{Message: "Order deleted", Deleted: 1}, decode[orderDeleted](t, rec))
	assert.Equal(t, int64(10), productStock(t, e, productID))

	rec = doJSON(t, e, http.MethodDelete, orderPath, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decode[errorBody](t, rec).Error)

	// 履歴: 作成-4, 更新+4/-9, 削除+9
	rec = doJSON(t, e, http.MethodGet, "/products/"+strconv.FormatInt(productID, 10)+"/adjustments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]adjustmentBody](t, rec)
	require.Len(t, items, 4)
	var sum int64
	for _, it := range items {
		assert.Equal(t, created.OrderID, it.OrderID)
		sum += it.Delta
	}
	assert.Equal(t, int64(0), sum)
	assert.Equal(t, "ORDER_CREATED", items[0].Reason)
	assert.Equal(t, "ORDER_DELETED", items[3].Reason)
}

func TestOrders_Errors(t *testing.T) {
	e := newTestServer(t)
	productID := createProduct(t, e, 3)
	customerID := createCustomer(t, e, "carol@example.com")

	cases := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"create unknown product", http.MethodPost, "/orders", orderBody(customerID, 9999, 1), http.StatusNotFound, "Product not found"},
		{"create insufficient stock", http.MethodPost, "/orders", orderBody(customerID, productID, 4), http.StatusBadRequest, "Not enough stock"},
		{"create zero quantity", http.MethodPost, "/orders", orderBody(customerID, productID, 0), http.StatusBadRequest, "quantity must be > 0"},
		{"create broken body", http.MethodPost, "/orders", `{"quantity":`, http.StatusBadRequest, "invalid body"},
		{"update unknown order", http.MethodPut, "/orders/9999", orderBody(customerID, productID, 1), http.StatusNotFound, "Order not found"},
		{"update bad id", http.MethodPut, "/orders/x", orderBody(customerID, productID, 1), http.StatusBadRequest, "invalid id"},
		{"delete unknown order", http.MethodDelete, "/orders/9999", "", http.StatusNotFound, "Order not found"},
		{"get unknown order", http.MethodGet, "/orders/9999", "", http.StatusNotFound, "Order not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, e, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.message, decode[errorBody](t, rec).Error)
		})
	}

	// 失敗しても在庫は変わらない
	assert.Equal(t, int64(3), productStock(t, e, productID))
}

func TestOrders_UpdateInsufficientStockKeepsOrder(t *testing.T) {
	e := newTestServer(t)
	productID := createProduct(t, e, 5)
	customerID := createCustomer(t, e, "dave@example.com")

	rec := doJSON(t, e, http.MethodPost, "/orders", orderBody(customerID, productID, 2))
	require.Equal(t, http.StatusOK, rec.Code)
	orderPath := "/orders/" + strconv.FormatInt(decode[orderCreated](t, rec).OrderID, 10)

	// 戻した後でも5しかない
	rec = doJSON(t, e, http.MethodPut, orderPath, orderBody(customerID, productID, 6))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Not enough stock", decode[errorBody](t, rec).Error)
	assert.Equal(t, int64(3), productStock(t, e, productID))

	rec = doJSON(t, e, http.MethodPut, orderPath, orderBody(customerID, 9999, 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode[errorBody](t, rec).Error)
	assert.Equal(t, int64(3), productStock(t, e, productID))
}
