package auth

import (
	"context"
	"errors"
	"time"

	"ezelectronics/internal/domain/model"
	"ezelectronics/internal/repository"
)

var (
	// 提示されたリフレッシュトークンが無効（不明・期限切れ・失効済み）
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// 使用済みトークンの再提示やUA不一致。該当ユーザーのトークンを全削除する
	ErrRefreshTokenReuse = errors.New("refresh token reuse detected")
)

type RefreshOutput struct {
	Token JwtAccessToken `json:"token"`
}

// リフレッシュトークンのローテーション。
// 旧トークンはused、新トークンを発行して返す。1トークン1回きり。
type RefreshUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

// DI
func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, plainRefreshToken string, userAgent string) (RefreshOutput, LoginSideEffect, error) {
	var out RefreshOutput
	var side LoginSideEffect

	if plainRefreshToken == "" {
		return out, side, ErrInvalidRefreshToken
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(plainRefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}

	now := u.clock.Now()

	if rt.ExpiresAt.Before(now) {
		return out, side, ErrInvalidRefreshToken
	}
	if rt.RevokedAt != nil {
		return out, side, ErrInvalidRefreshToken
	}

	// 使用済みトークンの再提示はreplay。ユーザーのトークンを全部落とす
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUsername(ctx, rt.Username)
		return out, side, ErrRefreshTokenReuse
	}

	// UAが変わっていたら再認証扱い
	if userAgent != "" && rt.UserAgent != "" && userAgent != rt.UserAgent {
		_ = u.rtRepo.DeleteAllByUsername(ctx, rt.Username)
		return out, side, ErrRefreshTokenReuse
	}

	user, err := u.userRepo.FindByUsername(ctx, rt.Username)
	if err != nil || user == nil {
		return out, side, ErrInvalidRefreshToken
	}

	// 旧トークンをusedへ。競合（同時リフレッシュ）はreplay扱い
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		_ = u.rtRepo.DeleteAllByUsername(ctx, rt.Username)
		return out, side, ErrRefreshTokenReuse
	}

	plainNext, err := generateSecureToken(32)
	if err != nil {
		return out, side, err
	}

	refreshExp := now.Add(u.refreshTTL)
	next := &model.RefreshToken{
		ID:        u.idGen.NewID(),
		Username:  user.Username,
		TokenHash: hashToken(plainNext),
		UserAgent: userAgent,
		ExpiresAt: refreshExp,
	}
	if err := u.rtRepo.Create(ctx, next); err != nil {
		return out, side, err
	}

	accessToken, accessExp, err := u.issuer.Issue(user.Username, user.Role, user.TokenVersion, now)
	if err != nil {
		return out, side, err
	}

	out.Token = JwtAccessToken{
		AccessToken: accessToken,
		ExpiresIn:   int(accessExp.Sub(now).Seconds()),
	}
	side.PlainRefreshToken = plainNext
	side.RefreshExpiresAt = refreshExp
	return out, side, nil
}
