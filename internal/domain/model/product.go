package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySmartphone Category = "Smartphone"
	CategoryLaptop     Category = "Laptop"
	CategoryAppliance  Category = "Appliance"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySmartphone, CategoryLaptop, CategoryAppliance:
		return true
	}
	return false
}

// 商品コンセプト。modelが主キー（個体ではなく型番単位）。
// quantityは在庫数。コミット後に負になってはいけない。
type Product struct {
	Model        string          `gorm:"primaryKey;type:varchar(255)"`
	Category     Category        `gorm:"type:varchar(20);not null;index"`
	SellingPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;column:selling_price"`
	ArrivalDate  time.Time       `gorm:"type:date;not null;column:arrival_date"`
	Details      string          `gorm:"type:text"`
	Quantity     int64           `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
