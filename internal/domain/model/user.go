package model

import "time"

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// ロール文字列が3種のどれかを確認
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// usersテーブル。usernameが主キー。
type User struct {
	Username     string     `gorm:"primaryKey;type:varchar(255)" json:"username"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Surname      string     `gorm:"type:varchar(255);not null" json:"surname"`
	Role         Role       `gorm:"type:varchar(20);not null" json:"role"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Address      string     `gorm:"type:varchar(255)" json:"address"`
	Birthdate    *time.Time `gorm:"type:date" json:"-"`
	TokenVersion int        `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"-"`
}
