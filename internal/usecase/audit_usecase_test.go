package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
	"ezelectronics/internal/usecase"
)

func TestAuditUsecase_GetAuditLogs_AdminOnly(t *testing.T) {
	uc := usecase.NewAuditUsecase(new(ProdAuditRepoMock))

	for _, actor := range []model.User{testCust, testManager} {
		_, err := uc.GetAuditLogs(context.Background(), actor, usecase.ListAuditLogsInput{})
		assert.ErrorIs(t, err, usecase.ErrNotAuthorized)
	}
}

func TestAuditUsecase_GetAuditLogs_Success(t *testing.T) {
	aRepo := new(ProdAuditRepoMock)
	uc := usecase.NewAuditUsecase(aRepo)

	aRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.ActorUsername != nil && *f.ActorUsername == "manager1" &&
			f.Action != nil && *f.Action == model.AuditActionSell &&
			f.Limit == 10
	})).Return([]model.AuditLog{
		{
			ID:            1,
			ActorUsername: "manager1",
			Action:        model.AuditActionSell,
			ResourceType:  model.AuditResourceProduct,
			ResourceKey:   "iPhone 13",
			CreatedAt:     time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
		},
	}, nil)

	out, err := uc.GetAuditLogs(context.Background(), testAdmin, usecase.ListAuditLogsInput{
		Actor:  "manager1",
		Action: "SELL",
		Limit:  10,
	})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "SELL", out[0].Action)
	assert.Equal(t, "iPhone 13", out[0].ResourceKey)
	aRepo.AssertExpectations(t)
}

func TestAuditUsecase_GetAuditLogs_InvalidDate(t *testing.T) {
	uc := usecase.NewAuditUsecase(new(ProdAuditRepoMock))

	_, err := uc.GetAuditLogs(context.Background(), testAdmin, usecase.ListAuditLogsInput{From: "15-06-2024"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 422, he.Status)
}
