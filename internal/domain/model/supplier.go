package model

// 仕入先。スキーマだけ用意している
type Supplier struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Contact string `gorm:"type:varchar(255)" json:"contact"`
}
