package model

import "time"

// 1注文 = 1商品の在庫引当。行が存在する間だけ在庫を減らしている
type Order struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"not null;index" json:"customer_id"`
	ProductID  int64     `gorm:"not null;index" json:"product_id"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"-"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
