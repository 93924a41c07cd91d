package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1顧客につき未払い(paid=false)のカートは1つ。
// 支払い済みのカートは注文履歴としてそのまま残る（変更不可）。
type Cart struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Customer    string          `gorm:"type:varchar(255);not null;index"`
	Paid        bool            `gorm:"not null;default:false;index"`
	PaymentDate *time.Time      `gorm:"type:date;column:payment_date"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }
