package usecase

import (
	"context"
	"time"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

// 日付はAPI上 "YYYY-MM-DD"
const DateLayout = "2006-01-02"

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 時刻を日付（0時）に丸める
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ロールチェック。middlewareではなく各操作の先頭で行う。
func requireRole(actor model.User, roles ...model.Role) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return ErrNotAuthorized
}

// 監査ログは業務結果を変えない。失敗しても操作自体は成功扱い
func writeAudit(
	ctx context.Context,
	auditRepo repo.AuditLogRepository,
	clock Clock,
	actor model.User,
	action model.AuditAction,
	resource model.AuditResourceType,
	key string,
	beforeJSON string,
	afterJSON string,
) {
	_ = auditRepo.Create(ctx, model.AuditLog{
		ActorUsername: actor.Username,
		Action:        action,
		ResourceType:  resource,
		ResourceKey:   key,
		BeforeJSON:    beforeJSON,
		AfterJSON:     afterJSON,
		CreatedAt:     clock.Now(),
	})
}
