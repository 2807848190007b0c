package repository

import (
	"errors"
	"fmt"
	"strings"

	repo "inventory/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// DBエラーを制約違反とそれ以外に分ける。
// 制約違反（DBが値を受け付けない）は repo.ErrConstraintViolation でラップして返す
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: %v", repo.ErrConstraintViolation, err)
	}
	return err
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	// postgres: SQLSTATE 23xxx は integrity constraint violation、
	// 22xxx は桁あふれなど値がカラムに入らない
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23") || strings.HasPrefix(pgErr.Code, "22")
	}

	// sqlite: "UNIQUE constraint failed: customers.email" など
	return strings.Contains(err.Error(), "constraint failed")
}
