package model

import "time"

// リフレッシュトークン。平文は保存せずsha256ハッシュで持つ。
type RefreshToken struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	Username  string     `gorm:"type:varchar(255);not null;index"`
	TokenHash string     `gorm:"not null;uniqueIndex"`
	UserAgent string     `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	UsedAt    *time.Time `gorm:"index"`
	RevokedAt *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime"`
}
