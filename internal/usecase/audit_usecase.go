package usecase

import (
	"context"
	"net/http"
	"time"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

// 監査ログの閲覧。書き込みは各usecaseが行う。
type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

// DI
func NewAuditUsecase(auditRepo repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

type AuditLogResponse struct {
	ID            int64  `json:"id"`
	ActorUsername string `json:"actorUsername"`
	Action        string `json:"action"`
	ResourceType  string `json:"resourceType"`
	ResourceKey   string `json:"resourceKey"`
	Before        string `json:"before,omitempty"`
	After         string `json:"after,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

type ListAuditLogsInput struct {
	Actor        string
	Action       string
	ResourceType string
	From         string // "YYYY-MM-DD"
	To           string // "YYYY-MM-DD"
	Limit        int
	Offset       int
}

// GetAuditLogs は操作ログを新しい順に返す（Adminのみ）。
func (u *AuditUsecase) GetAuditLogs(ctx context.Context, actor model.User, in ListAuditLogsInput) ([]AuditLogResponse, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	filter := repo.AuditLogFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Actor != "" {
		filter.ActorUsername = &in.Actor
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		filter.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		filter.ResourceType = &rt
	}
	if in.From != "" {
		from, err := time.Parse(DateLayout, in.From)
		if err != nil {
			return nil, NewHTTPError(http.StatusUnprocessableEntity, "invalid from date")
		}
		filter.CreatedFrom = &from
	}
	if in.To != "" {
		to, err := time.Parse(DateLayout, in.To)
		if err != nil {
			return nil, NewHTTPError(http.StatusUnprocessableEntity, "invalid to date")
		}
		// toの日の終わりまで含める
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedTo = &end
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditLogResponse{
			ID:            l.ID,
			ActorUsername: l.ActorUsername,
			Action:        string(l.Action),
			ResourceType:  string(l.ResourceType),
			ResourceKey:   l.ResourceKey,
			Before:        l.BeforeJSON,
			After:         l.AfterJSON,
			CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}
