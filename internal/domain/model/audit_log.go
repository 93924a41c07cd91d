package model

import "time"

// 在庫更新・売上・一括削除など。
type AuditAction string

const (
	AuditActionRestock      AuditAction = "RESTOCK"
	AuditActionSell         AuditAction = "SELL"
	AuditActionDeleteAll    AuditAction = "DELETE_ALL"
	AuditActionDeleteByName AuditAction = "DELETE"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct AuditResourceType = "product"
	AuditResourceCart    AuditResourceType = "cart"
	AuditResourceReview  AuditResourceType = "review"
)

// 管理側操作のログ。「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID            int64             `gorm:"primaryKey;autoIncrement"`
	ActorUsername string            `gorm:"type:varchar(255);not null;index"`
	Action        AuditAction       `gorm:"type:varchar(50);not null;index"`
	ResourceType  AuditResourceType `gorm:"type:varchar(50);not null;index"`
	ResourceKey   string            `gorm:"type:varchar(255);not null;index"`
	BeforeJSON    string            `gorm:"type:text"`
	AfterJSON     string            `gorm:"type:text"`
	CreatedAt     time.Time         `gorm:"not null;index;autoCreateTime"`
}
