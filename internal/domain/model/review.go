package model

import "time"

// 商品レビュー。(model, user)で1件まで。scoreは1〜5。
type ProductReview struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Model     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_model_user"`
	User      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_model_user;column:user"`
	Score     int       `gorm:"not null"`
	Date      time.Time `gorm:"type:date;not null"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

func (ProductReview) TableName() string { return "reviews" }
