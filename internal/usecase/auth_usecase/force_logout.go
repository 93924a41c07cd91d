package auth

import (
	"context"
	"errors"

	"ezelectronics/internal/domain/model"
	"ezelectronics/internal/repository"
)

var (
	// Admin以外の強制ログアウト要求
	ErrForbidden = errors.New("forbidden")

	// 対象ユーザーが存在しない
	ErrUserNotFound = errors.New("user not found")
)

type ForceLogoutOutput struct {
	Username        string `json:"username"`
	NewTokenVersion int    `json:"newTokenVersion"`
}

// 管理者による強制ログアウト。
// token_versionを+1して既発行のJWTを全部無効化し、リフレッシュトークンも消す。
type ForceLogoutUsecase struct {
	userRepo repository.UserRepository
	rtRepo   repository.RefreshTokenRepository
}

// DI
func NewForceLogoutUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
) *ForceLogoutUsecase {
	return &ForceLogoutUsecase{userRepo: userRepo, rtRepo: rtRepo}
}

func (u *ForceLogoutUsecase) Execute(ctx context.Context, actor model.User, targetUsername string) (ForceLogoutOutput, error) {
	var out ForceLogoutOutput

	if actor.Role != model.RoleAdmin {
		return out, ErrForbidden
	}
	if targetUsername == "" {
		return out, ErrInvalidInput
	}

	if err := u.userRepo.IncrementTokenVersion(ctx, targetUsername); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrUserNotFound
		}
		return out, err
	}

	if err := u.rtRepo.DeleteAllByUsername(ctx, targetUsername); err != nil {
		return out, err
	}

	// 更新後のversionを返す
	user, err := u.userRepo.FindByUsername(ctx, targetUsername)
	if err != nil || user == nil {
		return out, ErrUserNotFound
	}

	out.Username = user.Username
	out.NewTokenVersion = user.TokenVersion
	return out, nil
}
