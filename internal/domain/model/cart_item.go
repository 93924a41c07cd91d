package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。(cart_id, model)でユニーク。
// categoryとpriceは追加時点のスナップショット。
type ProductInCart struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	CartID    int64           `gorm:"not null;index;uniqueIndex:idx_cart_model"`
	Model     string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_cart_model"`
	Quantity  int64           `gorm:"not null"`
	Category  Category        `gorm:"type:varchar(20);not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime"`
}

func (ProductInCart) TableName() string { return "product_in_cart" }
