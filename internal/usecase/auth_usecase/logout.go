package auth

import (
	"context"
	"errors"

	"ezelectronics/internal/repository"
)

type LogoutUsecase struct {
	rtRepo repository.RefreshTokenRepository
	clock  Clock
}

// DI
func NewLogoutUsecase(rtRepo repository.RefreshTokenRepository, clock Clock) *LogoutUsecase {
	return &LogoutUsecase{rtRepo: rtRepo, clock: clock}
}

// Execute は提示されたリフレッシュトークンを無効化する。
// トークンが見つからなくてもログアウト自体は成功扱い。
func (u *LogoutUsecase) Execute(ctx context.Context, plainRefreshToken string) error {
	if plainRefreshToken == "" {
		return nil
	}

	token, err := u.rtRepo.FindByTokenHash(ctx, hashToken(plainRefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil
		}
		return err
	}

	err = u.rtRepo.Revoke(ctx, token.ID, u.clock.Now())
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return err
	}
	return nil
}
