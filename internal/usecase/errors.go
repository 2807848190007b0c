package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "inventory/internal/repository"
)

// エラーの種類。HTTPError.Kind に入るので errors.Is で判定できる
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStore               = errors.New("store error")
)

type HTTPError struct {
	Status  int
	Message string
	Kind    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Kind
}

func NewHTTPError(status int, message string, kind error) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Kind:    kind,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func badRequest(message string) error {
	return NewHTTPError(http.StatusBadRequest, message, ErrInvalidInput)
}

func productNotFound() error {
	return NewHTTPError(http.StatusNotFound, "Product not found", ErrNotFound)
}

func orderNotFound() error {
	return NewHTTPError(http.StatusNotFound, "Order not found", ErrNotFound)
}

func insufficientStock() error {
	return NewHTTPError(http.StatusBadRequest, "Not enough stock", ErrInsufficientStock)
}

// DBのエラーを変換する。制約違反は400、それ以外は500
func storeError(err error) error {
	if he, ok := AsHTTPError(err); ok {
		return he
	}
	if errors.Is(err, repo.ErrConstraintViolation) {
		return NewHTTPError(http.StatusBadRequest, "constraint violation", ErrConstraintViolation)
	}
	return NewHTTPError(http.StatusInternalServerError, "db error", ErrStore)
}
