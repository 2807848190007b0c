package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	QuantityInStock int64           `gorm:"column:quantity_in_stock;not null" json:"quantity_in_stock"`
	CategoryID      *int64          `gorm:"index" json:"category_id"`
	Category        *Category       `gorm:"foreignKey:CategoryID" json:"-"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
