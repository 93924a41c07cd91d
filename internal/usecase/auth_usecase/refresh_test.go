package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ezelectronics/internal/domain/model"
	"ezelectronics/internal/repository"
	auth "ezelectronics/internal/usecase/auth_usecase"
)

// =====================
// Refresh
// =====================

func refreshFixture(t *testing.T) (*AuthUserRepoMock, *AuthRefreshTokenRepoMock, *auth.RefreshUsecase) {
	t.Helper()
	userRepo := new(AuthUserRepoMock)
	rtRepo := new(AuthRefreshTokenRepoMock)
	uc := auth.NewRefreshUsecase(
		userRepo, rtRepo,
		stubIssuer{}, stubIDGen{},
		fixedClock{authNow}, 14*24*time.Hour,
	)
	return userRepo, rtRepo, uc
}

func storedRefreshToken() *model.RefreshToken {
	return &model.RefreshToken{
		ID:        "tok-1",
		Username:  "cust1",
		TokenHash: "stored-hash",
		UserAgent: "ua-1",
		ExpiresAt: authNow.Add(time.Hour),
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	userRepo, rtRepo, uc := refreshFixture(t)

	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(storedRefreshToken(), nil)
	userRepo.On("FindByUsername", mock.Anything, "cust1").
		Return(&model.User{Username: "cust1", Role: model.RoleCustomer, TokenVersion: 2}, nil)
	// 旧トークンはused、新トークンは別のハッシュで作り直す
	rtRepo.On("MarkUsed", mock.Anything, "tok-1", authNow).Return(nil)
	rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(token *model.RefreshToken) bool {
		return token.ID == "fixed-id" &&
			token.Username == "cust1" &&
			token.TokenHash != "" &&
			token.TokenHash != "stored-hash" &&
			token.UserAgent == "ua-1" &&
			token.ExpiresAt.Equal(authNow.Add(14*24*time.Hour))
	})).Return(nil)

	out, side, err := uc.Execute(context.Background(), "plain-refresh", "ua-1")
	assert.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token.AccessToken)
	assert.NotEmpty(t, side.PlainRefreshToken)
	assert.NotEqual(t, "plain-refresh", side.PlainRefreshToken)
	assert.True(t, side.RefreshExpiresAt.Equal(authNow.Add(14*24*time.Hour)))
	rtRepo.AssertExpectations(t)
}

func TestRefresh_EmptyToken(t *testing.T) {
	_, rtRepo, uc := refreshFixture(t)

	_, _, err := uc.Execute(context.Background(), "", "ua-1")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	rtRepo.AssertNotCalled(t, "FindByTokenHash", mock.Anything, mock.Anything)
}

func TestRefresh_UnknownToken(t *testing.T) {
	_, rtRepo, uc := refreshFixture(t)

	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(nil, repository.ErrRefreshTokenNotFound)

	_, _, err := uc.Execute(context.Background(), "plain-refresh", "ua-1")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	_, rtRepo, uc := refreshFixture(t)

	stored := storedRefreshToken()
	stored.ExpiresAt = authNow.Add(-time.Minute)
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(stored, nil)

	_, _, err := uc.Execute(context.Background(), "plain-refresh", "ua-1")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	rtRepo.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_RevokedToken(t *testing.T) {
	_, rtRepo, uc := refreshFixture(t)

	stored := storedRefreshToken()
	revokedAt := authNow.Add(-time.Minute)
	stored.RevokedAt = &revokedAt
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(stored, nil)

	_, _, err := uc.Execute(context.Background(), "plain-refresh", "ua-1")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_UsedTokenReplay(t *testing.T) {
	_, rtRepo, uc := refreshFixture(t)

	stored := storedRefreshToken()
	usedAt := authNow.Add(-time.Minute)
	stored.UsedAt = &usedAt
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(stored, nil)
	// replay検知でユーザーのトークンを全削除
	rtRepo.On("DeleteAllByUsername", mock.Anything, "cust1").Return(nil)

	_, _, err := uc.Execute(context.Background(), "plain-refresh", "ua-1")
	assert.ErrorIs(t, err, auth.ErrRefreshTokenReuse)
	rtRepo.AssertExpectations(t)
	rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRefresh_UserAgentMismatch(t *testing.T) {
	_, rtRepo, uc := refreshFixture(t)

	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(storedRefreshToken(), nil)
	rtRepo.On("DeleteAllByUsername", mock.Anything, "cust1").Return(nil)

	_, _, err := uc.Execute(context.Background(), "plain-refresh", "ua-other")
	assert.ErrorIs(t, err, auth.ErrRefreshTokenReuse)
	rtRepo.AssertExpectations(t)
}

func TestRefresh_MarkUsedRace(t *testing.T) {
	userRepo, rtRepo, uc := refreshFixture(t)

	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(storedRefreshToken(), nil)
	userRepo.On("FindByUsername", mock.Anything, "cust1").
		Return(&model.User{Username: "cust1", Role: model.RoleCustomer}, nil)
	// 同時リフレッシュで先を越された場合もreplay扱い
	rtRepo.On("MarkUsed", mock.Anything, "tok-1", authNow).Return(repository.ErrRefreshTokenNotFound)
	rtRepo.On("DeleteAllByUsername", mock.Anything, "cust1").Return(nil)

	_, _, err := uc.Execute(context.Background(), "plain-refresh", "ua-1")
	assert.ErrorIs(t, err, auth.ErrRefreshTokenReuse)
	rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// ForceLogout
// =====================

func adminActor() model.User {
	return model.User{Username: "boss", Role: model.RoleAdmin}
}

func TestForceLogout_BumpsVersionAndDeletesTokens(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	rtRepo := new(AuthRefreshTokenRepoMock)
	uc := auth.NewForceLogoutUsecase(userRepo, rtRepo)

	userRepo.On("IncrementTokenVersion", mock.Anything, "cust1").Return(nil)
	rtRepo.On("DeleteAllByUsername", mock.Anything, "cust1").Return(nil)
	userRepo.On("FindByUsername", mock.Anything, "cust1").
		Return(&model.User{Username: "cust1", Role: model.RoleCustomer, TokenVersion: 3}, nil)

	out, err := uc.Execute(context.Background(), adminActor(), "cust1")
	assert.NoError(t, err)
	assert.Equal(t, "cust1", out.Username)
	assert.Equal(t, 3, out.NewTokenVersion)
	userRepo.AssertExpectations(t)
	rtRepo.AssertExpectations(t)
}

func TestForceLogout_NonAdminForbidden(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	rtRepo := new(AuthRefreshTokenRepoMock)
	uc := auth.NewForceLogoutUsecase(userRepo, rtRepo)

	actor := model.User{Username: "cust2", Role: model.RoleCustomer}
	_, err := uc.Execute(context.Background(), actor, "cust1")
	assert.ErrorIs(t, err, auth.ErrForbidden)
	userRepo.AssertNotCalled(t, "IncrementTokenVersion", mock.Anything, mock.Anything)
	rtRepo.AssertNotCalled(t, "DeleteAllByUsername", mock.Anything, mock.Anything)
}

func TestForceLogout_UnknownUser(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	rtRepo := new(AuthRefreshTokenRepoMock)
	uc := auth.NewForceLogoutUsecase(userRepo, rtRepo)

	userRepo.On("IncrementTokenVersion", mock.Anything, "nobody").Return(repository.ErrNotFound)

	_, err := uc.Execute(context.Background(), adminActor(), "nobody")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
	rtRepo.AssertNotCalled(t, "DeleteAllByUsername", mock.Anything, mock.Anything)
}

func TestForceLogout_EmptyUsername(t *testing.T) {
	uc := auth.NewForceLogoutUsecase(new(AuthUserRepoMock), new(AuthRefreshTokenRepoMock))

	_, err := uc.Execute(context.Background(), adminActor(), "")
	assert.ErrorIs(t, err, auth.ErrInvalidInput)
}
